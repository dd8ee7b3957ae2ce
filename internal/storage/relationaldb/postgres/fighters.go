package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/domain"
)

type fighterProfileRepository struct {
	exec executor
}

func (r *fighterProfileRepository) Create(ctx context.Context, profile *domain.FighterProfile) error {
	_, err := r.exec.ExecContext(ctx, `
		INSERT INTO fighter_profiles (id, user_id, display_name, xrpl_address, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		profile.ID, profile.UserID, profile.DisplayName, profile.XRPLAddress, profile.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create fighter profile: %w", translateError(err))
	}
	return nil
}

func (r *fighterProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.FighterProfile, error) {
	row := r.exec.QueryRowContext(ctx, `
		SELECT id, user_id, display_name, xrpl_address, created_at
		FROM fighter_profiles WHERE user_id = $1`, userID)

	var profile domain.FighterProfile
	err := row.Scan(&profile.ID, &profile.UserID, &profile.DisplayName, &profile.XRPLAddress, &profile.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrFighterProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan fighter profile: %w", err)
	}
	return &profile, nil
}
