// Package relationaldb defines the repository and unit-of-work abstractions
// over the relational store. The database is the only mutable shared
// resource; every state-changing operation runs inside one UnitOfWork whose
// Commit is the atomic boundary.
package relationaldb

import (
	"context"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/domain"
)

// UserRepository handles user rows. Lookups that find nothing return
// domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// FighterProfileRepository handles fighter payout profiles.
type FighterProfileRepository interface {
	Create(ctx context.Context, profile *domain.FighterProfile) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.FighterProfile, error)
}

// BoutRepository handles bout rows. Get returns domain.ErrBoutNotFound when
// the bout does not exist.
type BoutRepository interface {
	Create(ctx context.Context, bout *domain.Bout) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Bout, error)
	// UpdateState persists status and winner.
	UpdateState(ctx context.Context, bout *domain.Bout) error
}

// EscrowRepository handles escrow rows. GetByBoutKind returns
// domain.ErrEscrowNotFound when no row matches.
type EscrowRepository interface {
	Create(ctx context.Context, escrow *domain.Escrow) error
	ListByBout(ctx context.Context, boutID uuid.UUID) ([]*domain.Escrow, error)
	GetByBoutKind(ctx context.Context, boutID uuid.UUID, kind domain.EscrowKind) (*domain.Escrow, error)
	// UpdateState persists status, ledger references, and failure fields.
	UpdateState(ctx context.Context, escrow *domain.Escrow) error
}

// AuditLogRepository appends to the audit trail. Rows are never updated or
// deleted.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLog) error
}

// IdempotencyKeyRepository handles stored confirm replies. Get returns
// (nil, nil) when no record exists for (scope, key).
type IdempotencyKeyRepository interface {
	Get(ctx context.Context, scope, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, record *domain.IdempotencyKey) error
}

// UnitOfWork scopes repositories to one database transaction.
type UnitOfWork interface {
	Users() UserRepository
	FighterProfiles() FighterProfileRepository
	Bouts() BoutRepository
	Escrows() EscrowRepository
	AuditLogs() AuditLogRepository
	IdempotencyKeys() IdempotencyKeyRepository

	Commit() error
	Rollback() error
}

// Database is the relational store entry point.
type Database interface {
	Open(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (UnitOfWork, error)
	// Migrate applies the baseline schema.
	Migrate() error
}
