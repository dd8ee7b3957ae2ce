package xaman

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
)

// StubService derives payload ids deterministically from the reference and
// the canonical transaction JSON, so repeated prepare calls for unchanged
// inputs yield the same id without any network traffic.
type StubService struct{}

func NewStubService() *StubService {
	return &StubService{}
}

func (s *StubService) CreateSignRequest(_ context.Context, txJSON map[string]any, reference string) (*SignRequest, error) {
	serialized, err := canonjson.Marshal(txJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize transaction: %w", err)
	}
	payloadID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(reference+":"+string(serialized))).String()
	wsURL := "wss://xumm.app/sign/" + payloadID
	return &SignRequest{
		PayloadID:          payloadID,
		DeepLinkURL:        "xumm://payload/" + payloadID,
		QRPNGURL:           "https://xumm.app/sign/" + payloadID + "/qr.png",
		WebsocketStatusURL: &wsURL,
		Mode:               ModeStub,
	}, nil
}

func (s *StubService) GetPayloadStatus(_ context.Context, payloadID string, query StatusQuery) (*StatusResult, error) {
	status, err := ParseObservedStatus(query.ObservedStatus)
	if err != nil {
		return nil, err
	}
	var txHash *string
	if query.ObservedTxHash != nil {
		trimmed := strings.TrimSpace(*query.ObservedTxHash)
		if trimmed != "" {
			txHash = &trimmed
		}
	}
	return &StatusResult{
		PayloadID: payloadID,
		Status:    status,
		TxHash:    txHash,
		Mode:      ModeStub,
	}, nil
}

var _ Service = (*StubService)(nil)
