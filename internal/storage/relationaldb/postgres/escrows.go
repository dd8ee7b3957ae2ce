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

type escrowRepository struct {
	exec executor
}

const escrowColumns = `id, bout_id, kind, status, owner_address, destination_address,
	amount_drops, finish_after_ripple, cancel_after_ripple, condition_hex,
	encrypted_preimage_hex, offer_sequence, create_tx_hash, close_tx_hash,
	failure_code, failure_reason, created_at`

func (r *escrowRepository) Create(ctx context.Context, escrow *domain.Escrow) error {
	_, err := r.exec.ExecContext(ctx, `
		INSERT INTO escrows (`+escrowColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		escrow.ID, escrow.BoutID, string(escrow.Kind), string(escrow.Status),
		escrow.OwnerAddress, escrow.DestinationAddress,
		int64(escrow.AmountDrops), escrow.FinishAfterRipple,
		nullInt64(escrow.CancelAfterRipple), nullString(escrow.ConditionHex),
		nullString(escrow.EncryptedPreimageHex), nullInt64(escrow.OfferSequence),
		nullString(escrow.CreateTxHash), nullString(escrow.CloseTxHash),
		nullString(escrow.FailureCode), nullString(escrow.FailureReason),
		escrow.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create escrow: %w", translateError(err))
	}
	return nil
}

func (r *escrowRepository) ListByBout(ctx context.Context, boutID uuid.UUID) ([]*domain.Escrow, error) {
	rows, err := r.exec.QueryContext(ctx, `
		SELECT `+escrowColumns+` FROM escrows WHERE bout_id = $1 ORDER BY kind`, boutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list escrows: %w", err)
	}
	defer rows.Close()

	var escrows []*domain.Escrow
	for rows.Next() {
		escrow, err := scanEscrow(rows)
		if err != nil {
			return nil, err
		}
		escrows = append(escrows, escrow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list escrows: %w", err)
	}
	return escrows, nil
}

func (r *escrowRepository) GetByBoutKind(ctx context.Context, boutID uuid.UUID, kind domain.EscrowKind) (*domain.Escrow, error) {
	row := r.exec.QueryRowContext(ctx, `
		SELECT `+escrowColumns+` FROM escrows WHERE bout_id = $1 AND kind = $2`,
		boutID, string(kind))
	escrow, err := scanEscrow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrEscrowNotFound
	}
	if err != nil {
		return nil, err
	}
	return escrow, nil
}

func (r *escrowRepository) UpdateState(ctx context.Context, escrow *domain.Escrow) error {
	result, err := r.exec.ExecContext(ctx, `
		UPDATE escrows SET
			status = $2, offer_sequence = $3, create_tx_hash = $4,
			close_tx_hash = $5, failure_code = $6, failure_reason = $7
		WHERE id = $1`,
		escrow.ID, string(escrow.Status),
		nullInt64(escrow.OfferSequence), nullString(escrow.CreateTxHash),
		nullString(escrow.CloseTxHash), nullString(escrow.FailureCode),
		nullString(escrow.FailureReason),
	)
	if err != nil {
		return fmt.Errorf("failed to update escrow: %w", translateError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update escrow: %w", err)
	}
	if affected == 0 {
		return domain.ErrEscrowNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEscrow(row rowScanner) (*domain.Escrow, error) {
	var escrow domain.Escrow
	var kind, status string
	var amount int64
	var cancelAfter, offerSeq sql.NullInt64
	var condition, preimage, createHash, closeHash, failCode, failReason sql.NullString
	err := row.Scan(
		&escrow.ID, &escrow.BoutID, &kind, &status,
		&escrow.OwnerAddress, &escrow.DestinationAddress,
		&amount, &escrow.FinishAfterRipple, &cancelAfter, &condition,
		&preimage, &offerSeq, &createHash, &closeHash,
		&failCode, &failReason, &escrow.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan escrow: %w", err)
	}
	escrow.Kind = domain.EscrowKind(kind)
	escrow.Status = domain.EscrowStatus(status)
	escrow.AmountDrops = drops.Drops(amount)
	escrow.CancelAfterRipple = int64Ptr(cancelAfter)
	escrow.ConditionHex = stringPtr(condition)
	escrow.EncryptedPreimageHex = stringPtr(preimage)
	escrow.OfferSequence = int64Ptr(offerSeq)
	escrow.CreateTxHash = stringPtr(createHash)
	escrow.CloseTxHash = stringPtr(closeHash)
	escrow.FailureCode = stringPtr(failCode)
	escrow.FailureReason = stringPtr(failReason)
	return &escrow, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
