package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fightpurse/fightpursed/internal/domain"
)

type idempotencyKeyRepository struct {
	exec executor
}

func (r *idempotencyKeyRepository) Get(ctx context.Context, scope, key string) (*domain.IdempotencyKey, error) {
	row := r.exec.QueryRowContext(ctx, `
		SELECT id, scope, idempotency_key, request_hash, response_code, response_body, created_at
		FROM idempotency_keys WHERE scope = $1 AND idempotency_key = $2`,
		scope, key)

	var record domain.IdempotencyKey
	err := row.Scan(
		&record.ID, &record.Scope, &record.Key, &record.RequestHash,
		&record.ResponseCode, &record.ResponseBody, &record.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan idempotency key: %w", err)
	}
	return &record, nil
}

func (r *idempotencyKeyRepository) Create(ctx context.Context, record *domain.IdempotencyKey) error {
	_, err := r.exec.ExecContext(ctx, `
		INSERT INTO idempotency_keys (id, scope, idempotency_key, request_hash, response_code, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.Scope, record.Key, record.RequestHash,
		record.ResponseCode, record.ResponseBody, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create idempotency key: %w", translateError(err))
	}
	return nil
}
