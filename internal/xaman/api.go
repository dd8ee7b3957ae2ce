package xaman

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
)

// APIService talks to the Xaman platform API with application credentials.
type APIService struct {
	baseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewAPIService(baseURL, apiKey, apiSecret string, timeout time.Duration) (*APIService, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, ErrCredentialsMissing
	}
	return &APIService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// NewService builds the service for the configured mode.
func NewService(mode, baseURL, apiKey, apiSecret string, timeout time.Duration) (Service, error) {
	switch mode {
	case ModeStub:
		return NewStubService(), nil
	case ModeAPI:
		return NewAPIService(baseURL, apiKey, apiSecret, timeout)
	}
	return nil, fmt.Errorf("%w: %q", ErrModeInvalid, mode)
}

func (s *APIService) CreateSignRequest(ctx context.Context, txJSON map[string]any, reference string) (*SignRequest, error) {
	body, err := canonjson.Marshal(map[string]any{
		"txjson":      txJSON,
		"options":     map[string]any{"submit": true},
		"custom_meta": map[string]any{"identifier": reference},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	payload, err := s.do(ctx, http.MethodPost, s.baseURL+"/api/v1/platform/payload", body)
	if err != nil {
		return nil, err
	}

	payloadID, ok := payload["uuid"].(string)
	if !ok {
		return nil, ErrInvalidResponse
	}
	next, ok := payload["next"].(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	refs, ok := payload["refs"].(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	deepLink, ok := next["always"].(string)
	if !ok {
		return nil, ErrInvalidResponse
	}
	qrPNG, ok := refs["qr_png"].(string)
	if !ok {
		return nil, ErrInvalidResponse
	}
	var wsURL *string
	if raw, present := refs["websocket_status"]; present && raw != nil {
		ws, ok := raw.(string)
		if !ok {
			return nil, ErrInvalidResponse
		}
		wsURL = &ws
	}

	return &SignRequest{
		PayloadID:          payloadID,
		DeepLinkURL:        deepLink,
		QRPNGURL:           qrPNG,
		WebsocketStatusURL: wsURL,
		Mode:               ModeAPI,
	}, nil
}

func (s *APIService) GetPayloadStatus(ctx context.Context, payloadID string, _ StatusQuery) (*StatusResult, error) {
	payload, err := s.do(ctx, http.MethodGet, s.baseURL+"/api/v1/platform/payload/"+payloadID, nil)
	if err != nil {
		return nil, err
	}

	meta, ok := payload["meta"].(map[string]any)
	if !ok {
		return nil, ErrInvalidResponse
	}
	status := resolveMetaStatus(meta)
	return &StatusResult{
		PayloadID: payloadID,
		Status:    status,
		TxHash:    extractTxHash(payload),
		Mode:      ModeAPI,
	}, nil
}

func (s *APIService) do(ctx context.Context, method, url string, body []byte) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", s.apiKey)
	req.Header.Set("X-API-Secret", s.apiSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionError, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionError, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrHTTPError, resp.StatusCode)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return payload, nil
}

func resolveMetaStatus(meta map[string]any) PayloadStatus {
	resolved := truthy(meta["resolved"])
	signed := truthy(meta["signed"])
	cancelled := truthy(meta["cancelled"])
	expired := truthy(meta["expired"])

	switch {
	case signed:
		return StatusSigned
	case cancelled:
		return StatusDeclined
	case expired:
		return StatusExpired
	case resolved:
		return StatusDeclined
	}
	return StatusOpen
}

func extractTxHash(payload map[string]any) *string {
	response, ok := payload["response"].(map[string]any)
	if !ok {
		return nil
	}
	for _, field := range []string{"txid", "txid_hex"} {
		if raw, ok := response[field].(string); ok {
			trimmed := strings.TrimSpace(raw)
			if trimmed != "" {
				return &trimmed
			}
		}
	}
	return nil
}

func truthy(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

var _ Service = (*APIService)(nil)
