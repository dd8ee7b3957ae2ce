package server

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// memoryDatabase backs handler tests. Every Begin hands out the same
// in-memory store so state carries across requests; Commit and Rollback
// are no-ops because writes apply immediately.
type memoryDatabase struct {
	store *memoryStore
}

func newMemoryDatabase() *memoryDatabase {
	return &memoryDatabase{store: &memoryStore{
		users:    make(map[uuid.UUID]*domain.User),
		profiles: make(map[uuid.UUID]*domain.FighterProfile),
		bouts:    make(map[uuid.UUID]*domain.Bout),
		escrows:  make(map[uuid.UUID]*domain.Escrow),
		idemKeys: make(map[string]*domain.IdempotencyKey),
	}}
}

func (d *memoryDatabase) Open(context.Context) error { return nil }
func (d *memoryDatabase) Close() error               { return nil }
func (d *memoryDatabase) Ping(context.Context) error { return nil }
func (d *memoryDatabase) Migrate() error             { return nil }
func (d *memoryDatabase) Begin(context.Context) (relationaldb.UnitOfWork, error) {
	return d.store, nil
}

type memoryStore struct {
	users    map[uuid.UUID]*domain.User
	profiles map[uuid.UUID]*domain.FighterProfile
	bouts    map[uuid.UUID]*domain.Bout
	escrows  map[uuid.UUID]*domain.Escrow
	audits   []*domain.AuditLog
	idemKeys map[string]*domain.IdempotencyKey
}

func (m *memoryStore) Users() relationaldb.UserRepository { return &memUsers{m} }
func (m *memoryStore) FighterProfiles() relationaldb.FighterProfileRepository {
	return &memProfiles{m}
}
func (m *memoryStore) Bouts() relationaldb.BoutRepository     { return &memBouts{m} }
func (m *memoryStore) Escrows() relationaldb.EscrowRepository { return &memEscrows{m} }
func (m *memoryStore) AuditLogs() relationaldb.AuditLogRepository {
	return &memAudits{m}
}
func (m *memoryStore) IdempotencyKeys() relationaldb.IdempotencyKeyRepository {
	return &memIdemKeys{m}
}
func (m *memoryStore) Commit() error   { return nil }
func (m *memoryStore) Rollback() error { return nil }

type memUsers struct{ m *memoryStore }

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return relationaldb.ErrUniqueViolation
		}
	}
	copied := *user
	r.m.users[user.ID] = &copied
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.m.users {
		if user.Email == strings.ToLower(email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memProfiles struct{ m *memoryStore }

func (r *memProfiles) Create(_ context.Context, profile *domain.FighterProfile) error {
	copied := *profile
	r.m.profiles[profile.UserID] = &copied
	return nil
}

func (r *memProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.FighterProfile, error) {
	profile, ok := r.m.profiles[userID]
	if !ok {
		return nil, domain.ErrFighterProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

type memBouts struct{ m *memoryStore }

func (r *memBouts) Create(_ context.Context, bout *domain.Bout) error {
	copied := *bout
	r.m.bouts[bout.ID] = &copied
	return nil
}

func (r *memBouts) Get(_ context.Context, id uuid.UUID) (*domain.Bout, error) {
	bout, ok := r.m.bouts[id]
	if !ok {
		return nil, domain.ErrBoutNotFound
	}
	copied := *bout
	return &copied, nil
}

func (r *memBouts) UpdateState(_ context.Context, bout *domain.Bout) error {
	stored, ok := r.m.bouts[bout.ID]
	if !ok {
		return domain.ErrBoutNotFound
	}
	stored.Status = bout.Status
	stored.Winner = bout.Winner
	return nil
}

type memEscrows struct{ m *memoryStore }

func (r *memEscrows) Create(_ context.Context, escrow *domain.Escrow) error {
	copied := *escrow
	r.m.escrows[escrow.ID] = &copied
	return nil
}

func (r *memEscrows) ListByBout(_ context.Context, boutID uuid.UUID) ([]*domain.Escrow, error) {
	var result []*domain.Escrow
	for _, escrow := range r.m.escrows {
		if escrow.BoutID == boutID {
			copied := *escrow
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memEscrows) GetByBoutKind(_ context.Context, boutID uuid.UUID, kind domain.EscrowKind) (*domain.Escrow, error) {
	for _, escrow := range r.m.escrows {
		if escrow.BoutID == boutID && escrow.Kind == kind {
			copied := *escrow
			return &copied, nil
		}
	}
	return nil, domain.ErrEscrowNotFound
}

func (r *memEscrows) UpdateState(_ context.Context, escrow *domain.Escrow) error {
	stored, ok := r.m.escrows[escrow.ID]
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

type memAudits struct{ m *memoryStore }

func (r *memAudits) Append(_ context.Context, entry *domain.AuditLog) error {
	copied := *entry
	r.m.audits = append(r.m.audits, &copied)
	return nil
}

type memIdemKeys struct{ m *memoryStore }

func (r *memIdemKeys) Get(_ context.Context, scope, key string) (*domain.IdempotencyKey, error) {
	record, ok := r.m.idemKeys[scope+"\x00"+key]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (r *memIdemKeys) Create(_ context.Context, record *domain.IdempotencyKey) error {
	lookup := record.Scope + "\x00" + record.Key
	if _, exists := r.m.idemKeys[lookup]; exists {
		return relationaldb.ErrUniqueViolation
	}
	copied := *record
	r.m.idemKeys[lookup] = &copied
	return nil
}

var _ relationaldb.Database = (*memoryDatabase)(nil)
var _ relationaldb.UnitOfWork = (*memoryStore)(nil)
