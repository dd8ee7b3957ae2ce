package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/drops"
)

// User is an authenticated account. Emails are stored normalized lowercase.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
}

// FighterProfile links a fighter account to its payout address.
type FighterProfile struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	DisplayName string
	XRPLAddress string
	CreatedAt   time.Time
}

// Bout is one prize fight with four escrowed purses.
type Bout struct {
	ID              uuid.UUID
	PromoterUserID  uuid.UUID
	FighterAUserID  uuid.UUID
	FighterBUserID  uuid.UUID
	EventDatetimeUTC time.Time
	FinishAfterUTC  time.Time
	CancelAfterUTC  time.Time
	ShowADrops      drops.Drops
	ShowBDrops      drops.Drops
	BonusADrops     drops.Drops
	BonusBDrops     drops.Drops
	Status          BoutStatus
	Winner          *BoutWinner
	CreatedAt       time.Time
}

// Escrow is one conditional XRPL escrow planned or deposited for a bout.
// OfferSequence and CreateTxHash are recorded on a validated EscrowCreate
// confirmation; CloseTxHash on a validated finish or cancel. Failure fields
// mark the last rejected confirmation and never advance state.
type Escrow struct {
	ID                   uuid.UUID
	BoutID               uuid.UUID
	Kind                 EscrowKind
	Status               EscrowStatus
	OwnerAddress         string
	DestinationAddress   string
	AmountDrops          drops.Drops
	FinishAfterRipple    int64
	CancelAfterRipple    *int64
	ConditionHex         *string
	EncryptedPreimageHex *string
	OfferSequence        *int64
	CreateTxHash         *string
	CloseTxHash          *string
	FailureCode          *string
	FailureReason        *string
	CreatedAt            time.Time
}

// AuditLog is one append-only record of a state-changing attempt.
// Details holds canonical JSON.
type AuditLog struct {
	ID          uuid.UUID
	ActorUserID *uuid.UUID
	Action      string
	EntityType  string
	EntityID    string
	Outcome     AuditOutcome
	Details     string
	CreatedAt   time.Time
}

// IdempotencyKey is one stored confirm reply, keyed by (scope, key).
// Records are read-only after first write; ResponseBody holds the canonical
// JSON object replayed verbatim to retries.
type IdempotencyKey struct {
	ID           uuid.UUID
	Scope        string
	Key          string
	RequestHash  string
	ResponseCode int
	ResponseBody string
	CreatedAt    time.Time
}
