package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// fakeUnitOfWork is an in-memory store for service tests. Commit and
// Rollback are recorded but apply nothing; each test inspects the maps
// directly.
type fakeUnitOfWork struct {
	users      map[uuid.UUID]*domain.User
	profiles   map[uuid.UUID]*domain.FighterProfile
	bouts      map[uuid.UUID]*domain.Bout
	escrows    map[uuid.UUID]*domain.Escrow
	audits     []*domain.AuditLog
	idemKeys   map[string]*domain.IdempotencyKey
	committed  bool
	rolledBack bool
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		users:    make(map[uuid.UUID]*domain.User),
		profiles: make(map[uuid.UUID]*domain.FighterProfile),
		bouts:    make(map[uuid.UUID]*domain.Bout),
		escrows:  make(map[uuid.UUID]*domain.Escrow),
		idemKeys: make(map[string]*domain.IdempotencyKey),
	}
}

func (f *fakeUnitOfWork) Users() relationaldb.UserRepository { return &fakeUsers{f} }
func (f *fakeUnitOfWork) FighterProfiles() relationaldb.FighterProfileRepository {
	return &fakeProfiles{f}
}
func (f *fakeUnitOfWork) Bouts() relationaldb.BoutRepository       { return &fakeBouts{f} }
func (f *fakeUnitOfWork) Escrows() relationaldb.EscrowRepository   { return &fakeEscrows{f} }
func (f *fakeUnitOfWork) AuditLogs() relationaldb.AuditLogRepository {
	return &fakeAudits{f}
}
func (f *fakeUnitOfWork) IdempotencyKeys() relationaldb.IdempotencyKeyRepository {
	return &fakeIdemKeys{f}
}
func (f *fakeUnitOfWork) Commit() error   { f.committed = true; return nil }
func (f *fakeUnitOfWork) Rollback() error { f.rolledBack = true; return nil }

func (f *fakeUnitOfWork) auditActions() []string {
	actions := make([]string, 0, len(f.audits))
	for _, entry := range f.audits {
		actions = append(actions, entry.Action)
	}
	return actions
}

type fakeUsers struct{ f *fakeUnitOfWork }

func (r *fakeUsers) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.f.users {
		if existing.Email == user.Email {
			return relationaldb.ErrUniqueViolation
		}
	}
	copied := *user
	r.f.users[user.ID] = &copied
	return nil
}

func (r *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.f.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeProfiles struct{ f *fakeUnitOfWork }

func (r *fakeProfiles) Create(_ context.Context, profile *domain.FighterProfile) error {
	copied := *profile
	r.f.profiles[profile.UserID] = &copied
	return nil
}

func (r *fakeProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.FighterProfile, error) {
	profile, ok := r.f.profiles[userID]
	if !ok {
		return nil, domain.ErrFighterProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

type fakeBouts struct{ f *fakeUnitOfWork }

func (r *fakeBouts) Create(_ context.Context, bout *domain.Bout) error {
	copied := *bout
	r.f.bouts[bout.ID] = &copied
	return nil
}

func (r *fakeBouts) Get(_ context.Context, id uuid.UUID) (*domain.Bout, error) {
	bout, ok := r.f.bouts[id]
	if !ok {
		return nil, domain.ErrBoutNotFound
	}
	copied := *bout
	return &copied, nil
}

func (r *fakeBouts) UpdateState(_ context.Context, bout *domain.Bout) error {
	stored, ok := r.f.bouts[bout.ID]
	if !ok {
		return domain.ErrBoutNotFound
	}
	stored.Status = bout.Status
	stored.Winner = bout.Winner
	return nil
}

type fakeEscrows struct{ f *fakeUnitOfWork }

func (r *fakeEscrows) Create(_ context.Context, escrow *domain.Escrow) error {
	copied := *escrow
	r.f.escrows[escrow.ID] = &copied
	return nil
}

func (r *fakeEscrows) ListByBout(_ context.Context, boutID uuid.UUID) ([]*domain.Escrow, error) {
	var result []*domain.Escrow
	for _, escrow := range r.f.escrows {
		if escrow.BoutID == boutID {
			copied := *escrow
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeEscrows) GetByBoutKind(_ context.Context, boutID uuid.UUID, kind domain.EscrowKind) (*domain.Escrow, error) {
	for _, escrow := range r.f.escrows {
		if escrow.BoutID == boutID && escrow.Kind == kind {
			copied := *escrow
			return &copied, nil
		}
	}
	return nil, domain.ErrEscrowNotFound
}

func (r *fakeEscrows) UpdateState(_ context.Context, escrow *domain.Escrow) error {
	stored, ok := r.f.escrows[escrow.ID]
	if !ok {
		return domain.ErrEscrowNotFound
	}
	stored.Status = escrow.Status
	stored.OfferSequence = escrow.OfferSequence
	stored.CreateTxHash = escrow.CreateTxHash
	stored.CloseTxHash = escrow.CloseTxHash
	stored.FailureCode = escrow.FailureCode
	stored.FailureReason = escrow.FailureReason
	return nil
}

type fakeAudits struct{ f *fakeUnitOfWork }

func (r *fakeAudits) Append(_ context.Context, entry *domain.AuditLog) error {
	copied := *entry
	r.f.audits = append(r.f.audits, &copied)
	return nil
}

type fakeIdemKeys struct{ f *fakeUnitOfWork }

func (r *fakeIdemKeys) Get(_ context.Context, scope, key string) (*domain.IdempotencyKey, error) {
	record, ok := r.f.idemKeys[scope+"\x00"+key]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *fakeIdemKeys) Create(_ context.Context, record *domain.IdempotencyKey) error {
	lookup := record.Scope + "\x00" + record.Key
	if _, exists := r.f.idemKeys[lookup]; exists {
		return relationaldb.ErrUniqueViolation
	}
	copied := *record
	r.f.idemKeys[lookup] = &copied
	return nil
}

var _ relationaldb.UnitOfWork = (*fakeUnitOfWork)(nil)
