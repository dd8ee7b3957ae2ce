package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// Replay is a stored confirm reply to return verbatim.
type Replay struct {
	StatusCode int
	Body       map[string]any
}

// IdempotencyService stores and replays confirm replies keyed by
// (scope, Idempotency-Key).
type IdempotencyService struct {
	uow relationaldb.UnitOfWork
	now func() time.Time
}

func NewIdempotencyService(uow relationaldb.UnitOfWork) *IdempotencyService {
	return &IdempotencyService{uow: uow, now: utcNow}
}

// HashRequestPayload hashes the canonical JSON of a request body. The hash
// decides whether a reused key carries the same payload.
func HashRequestPayload(payload map[string]any) (string, error) {
	return canonjson.HashSHA256(payload)
}

// BuildConfirmScope names the idempotency namespace for one confirm
// operation on one bout.
func BuildConfirmScope(operation string, boutID uuid.UUID) string {
	return operation + ":" + boutID.String()
}

// LoadReplay returns the stored reply for (scope, key), nil when the key is
// fresh, or ErrIdempotencyKeyMismatch when the key was first used with a
// different payload.
func (s *IdempotencyService) LoadReplay(ctx context.Context, scope, key, requestHash string) (*Replay, error) {
	record, err := s.uow.IdempotencyKeys().Get(ctx, scope, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	if record.RequestHash != requestHash {
		return nil, domain.ErrIdempotencyKeyMismatch
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(record.ResponseBody), &body); err != nil || body == nil {
		return nil, domain.ErrIdempotencyBodyInvalid
	}
	return &Replay{StatusCode: record.ResponseCode, Body: body}, nil
}

// StoreResponse records the reply for (scope, key). Stored bodies are
// canonical JSON so replays are bit identical.
func (s *IdempotencyService) StoreResponse(ctx context.Context, scope, key, requestHash string, statusCode int, body map[string]any) error {
	serialized, err := canonjson.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize response body: %w", err)
	}
	return s.uow.IdempotencyKeys().Create(ctx, &domain.IdempotencyKey{
		ID:           uuid.New(),
		Scope:        scope,
		Key:          key,
		RequestHash:  requestHash,
		ResponseCode: statusCode,
		ResponseBody: string(serialized),
		CreatedAt:    s.now(),
	})
}
