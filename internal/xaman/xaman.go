// Package xaman creates and tracks Xaman (XUMM) sign requests. Two modes
// exist: stub derives deterministic payload ids offline, api talks to the
// Xaman platform API. Private keys never enter this process in either mode.
package xaman

import (
	"context"
	"errors"
	"strings"
)

// Integration error codes. The text is the wire-visible snake_case code.
var (
	ErrModeInvalid           = errors.New("xaman_mode_invalid")
	ErrCredentialsMissing    = errors.New("xaman_api_credentials_missing")
	ErrHTTPError             = errors.New("xaman_api_http_error")
	ErrConnectionError       = errors.New("xaman_api_connection_error")
	ErrInvalidJSON           = errors.New("xaman_api_invalid_json")
	ErrInvalidResponse       = errors.New("xaman_api_invalid_response")
	ErrObservedStatusInvalid = errors.New("xaman_observed_status_invalid")
)

// Modes.
const (
	ModeStub = "stub"
	ModeAPI  = "api"
)

// PayloadStatus is the lifecycle state of one sign request.
type PayloadStatus string

const (
	StatusOpen     PayloadStatus = "open"
	StatusSigned   PayloadStatus = "signed"
	StatusDeclined PayloadStatus = "declined"
	StatusExpired  PayloadStatus = "expired"
	StatusUnknown  PayloadStatus = "unknown"
)

// SignRequest is a created sign request the client presents to the signer.
type SignRequest struct {
	PayloadID          string
	DeepLinkURL        string
	QRPNGURL           string
	WebsocketStatusURL *string
	Mode               string
}

// StatusResult reports the current state of one payload.
type StatusResult struct {
	PayloadID string
	Status    PayloadStatus
	TxHash    *string
	Mode      string
}

// StatusQuery carries caller-observed state for stub mode. The api mode
// ignores both fields and asks the platform.
type StatusQuery struct {
	ObservedStatus *string
	ObservedTxHash *string
}

// Service creates sign requests and reports payload status.
type Service interface {
	CreateSignRequest(ctx context.Context, txJSON map[string]any, reference string) (*SignRequest, error)
	GetPayloadStatus(ctx context.Context, payloadID string, query StatusQuery) (*StatusResult, error)
}

// ParseObservedStatus validates a caller-observed status string. A nil value
// means the signer has not resolved the payload yet.
func ParseObservedStatus(observed *string) (PayloadStatus, error) {
	if observed == nil {
		return StatusOpen, nil
	}
	switch PayloadStatus(strings.ToLower(strings.TrimSpace(*observed))) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusSigned:
		return StatusSigned, nil
	case StatusDeclined:
		return StatusDeclined, nil
	case StatusExpired:
		return StatusExpired, nil
	case StatusUnknown:
		return StatusUnknown, nil
	}
	return "", ErrObservedStatusInvalid
}
