package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fightpurse/fightpursed/internal/domain"
)

type auditLogRepository struct {
	exec executor
}

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLog) error {
	var actor any
	if entry.ActorUserID != nil {
		actor = *entry.ActorUserID
	}
	var details sql.NullString
	if entry.Details != "" {
		details = sql.NullString{String: entry.Details, Valid: true}
	}
	_, err := r.exec.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_user_id, action, entity_type, entity_id, outcome, details_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, actor, entry.Action, entry.EntityType, entry.EntityID,
		string(entry.Outcome), details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit log: %w", translateError(err))
	}
	return nil
}
