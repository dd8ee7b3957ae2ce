package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/drops"
	"github.com/fightpurse/fightpursed/internal/domain"
)

type boutRepository struct {
	exec executor
}

func (r *boutRepository) Create(ctx context.Context, bout *domain.Bout) error {
	var winner sql.NullString
	if bout.Winner != nil {
		winner = sql.NullString{String: string(*bout.Winner), Valid: true}
	}
	_, err := r.exec.ExecContext(ctx, `
		INSERT INTO bouts (
			id, promoter_user_id, fighter_a_user_id, fighter_b_user_id,
			event_datetime_utc, finish_after_utc, cancel_after_utc,
			show_a_drops, show_b_drops, bonus_a_drops, bonus_b_drops,
			status, winner, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		bout.ID, bout.PromoterUserID, bout.FighterAUserID, bout.FighterBUserID,
		bout.EventDatetimeUTC, bout.FinishAfterUTC, bout.CancelAfterUTC,
		int64(bout.ShowADrops), int64(bout.ShowBDrops),
		int64(bout.BonusADrops), int64(bout.BonusBDrops),
		string(bout.Status), winner, bout.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bout: %w", translateError(err))
	}
	return nil
}

func (r *boutRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Bout, error) {
	row := r.exec.QueryRowContext(ctx, `
		SELECT id, promoter_user_id, fighter_a_user_id, fighter_b_user_id,
			event_datetime_utc, finish_after_utc, cancel_after_utc,
			show_a_drops, show_b_drops, bonus_a_drops, bonus_b_drops,
			status, winner, created_at
		FROM bouts WHERE id = $1`, id)

	var bout domain.Bout
	var status string
	var winner sql.NullString
	var showA, showB, bonusA, bonusB int64
	err := row.Scan(
		&bout.ID, &bout.PromoterUserID, &bout.FighterAUserID, &bout.FighterBUserID,
		&bout.EventDatetimeUTC, &bout.FinishAfterUTC, &bout.CancelAfterUTC,
		&showA, &showB, &bonusA, &bonusB,
		&status, &winner, &bout.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bout: %w", err)
	}
	bout.ShowADrops = drops.Drops(showA)
	bout.ShowBDrops = drops.Drops(showB)
	bout.BonusADrops = drops.Drops(bonusA)
	bout.BonusBDrops = drops.Drops(bonusB)
	bout.Status = domain.BoutStatus(status)
	if winner.Valid {
		w := domain.BoutWinner(winner.String)
		bout.Winner = &w
	}
	return &bout, nil
}

func (r *boutRepository) UpdateState(ctx context.Context, bout *domain.Bout) error {
	var winner sql.NullString
	if bout.Winner != nil {
		winner = sql.NullString{String: string(*bout.Winner), Valid: true}
	}
	result, err := r.exec.ExecContext(ctx, `
		UPDATE bouts SET status = $2, winner = $3 WHERE id = $1`,
		bout.ID, string(bout.Status), winner,
	)
	if err != nil {
		return fmt.Errorf("failed to update bout: %w", translateError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update bout: %w", err)
	}
	if affected == 0 {
		return domain.ErrBoutNotFound
	}
	return nil
}
