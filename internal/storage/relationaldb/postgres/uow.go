package postgres

import (
	"database/sql"
	"fmt"

	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// unitOfWork scopes all repositories to one *sql.Tx.
type unitOfWork struct {
	tx   *sql.Tx
	done bool
}

func (u *unitOfWork) Users() relationaldb.UserRepository {
	return &userRepository{exec: u.tx}
}

func (u *unitOfWork) FighterProfiles() relationaldb.FighterProfileRepository {
	return &fighterProfileRepository{exec: u.tx}
}

func (u *unitOfWork) Bouts() relationaldb.BoutRepository {
	return &boutRepository{exec: u.tx}
}

func (u *unitOfWork) Escrows() relationaldb.EscrowRepository {
	return &escrowRepository{exec: u.tx}
}

func (u *unitOfWork) AuditLogs() relationaldb.AuditLogRepository {
	return &auditLogRepository{exec: u.tx}
}

func (u *unitOfWork) IdempotencyKeys() relationaldb.IdempotencyKeyRepository {
	return &idempotencyKeyRepository{exec: u.tx}
}

func (u *unitOfWork) Commit() error {
	if u.done {
		return relationaldb.ErrTransactionClosed
	}
	u.done = true
	if err := u.tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", relationaldb.ErrTransactionCommitFailed, err)
	}
	return nil
}

func (u *unitOfWork) Rollback() error {
	if u.done {
		return nil
	}
	u.done = true
	return u.tx.Rollback()
}

var _ relationaldb.UnitOfWork = (*unitOfWork)(nil)
