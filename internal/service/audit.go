// Package service implements the orchestration layer. Services are built
// per request over one unit of work; the HTTP layer owns commit and
// rollback so every state change shares a single atomic boundary.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

func appendAudit(
	ctx context.Context,
	repo relationaldb.AuditLogRepository,
	actorUserID *uuid.UUID,
	action, entityType, entityID string,
	outcome domain.AuditOutcome,
	details map[string]any,
	now time.Time,
) error {
	serialized, err := canonjson.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to serialize audit details: %w", err)
	}
	return repo.Append(ctx, &domain.AuditLog{
		ID:          uuid.New(),
		ActorUserID: actorUserID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Outcome:     outcome,
		Details:     string(serialized),
		CreatedAt:   now,
	})
}

func utcNow() time.Time {
	return time.Now().UTC()
}
