package domain

import "fmt"

// UserRole is the access level carried in bearer tokens.
type UserRole string

const (
	RolePromoter   UserRole = "promoter"
	RoleFighter    UserRole = "fighter"
	RoleManagement UserRole = "management"
	RoleAdmin      UserRole = "admin"
)

// ParseUserRole validates a role value from untrusted input.
func ParseUserRole(value string) (UserRole, error) {
	switch UserRole(value) {
	case RolePromoter, RoleFighter, RoleManagement, RoleAdmin:
		return UserRole(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUserRole, value)
}

// BoutStatus is the lifecycle state of a bout. Bouts progress monotonically
// from draft to closed; no transition moves backwards.
type BoutStatus string

const (
	BoutDraft             BoutStatus = "draft"
	BoutReadyForEscrow    BoutStatus = "ready_for_escrow"
	BoutEscrowsCreated    BoutStatus = "escrows_created"
	BoutResultEntered     BoutStatus = "result_entered"
	BoutPayoutsInProgress BoutStatus = "payouts_in_progress"
	BoutClosed            BoutStatus = "closed"
)

// EscrowKind identifies one of the four purses deposited per bout.
type EscrowKind string

const (
	KindShowA  EscrowKind = "show_a"
	KindShowB  EscrowKind = "show_b"
	KindBonusA EscrowKind = "bonus_a"
	KindBonusB EscrowKind = "bonus_b"
)

// AllEscrowKinds lists the kinds in deterministic plan order.
var AllEscrowKinds = []EscrowKind{KindShowA, KindShowB, KindBonusA, KindBonusB}

// ParseEscrowKind validates a kind value from untrusted input.
func ParseEscrowKind(value string) (EscrowKind, error) {
	switch EscrowKind(value) {
	case KindShowA, KindShowB, KindBonusA, KindBonusB:
		return EscrowKind(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEscrowKind, value)
}

// IsBonus reports whether the kind carries a crypto-condition.
func (k EscrowKind) IsBonus() bool {
	return k == KindBonusA || k == KindBonusB
}

// EscrowStatus is the lifecycle state of a single escrow.
type EscrowStatus string

const (
	EscrowPlanned   EscrowStatus = "planned"
	EscrowCreated   EscrowStatus = "created"
	EscrowFinished  EscrowStatus = "finished"
	EscrowCancelled EscrowStatus = "cancelled"
	EscrowFailed    EscrowStatus = "failed"
)

// BoutWinner names the winning corner once a result is entered.
type BoutWinner string

const (
	WinnerA BoutWinner = "A"
	WinnerB BoutWinner = "B"
)

// ParseBoutWinner validates a winner value from untrusted input.
func ParseBoutWinner(value string) (BoutWinner, error) {
	switch BoutWinner(value) {
	case WinnerA, WinnerB:
		return BoutWinner(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBoutWinner, value)
}

// BonusKinds returns (winner bonus, loser bonus) for a result.
func (w BoutWinner) BonusKinds() (EscrowKind, EscrowKind) {
	if w == WinnerA {
		return KindBonusA, KindBonusB
	}
	return KindBonusB, KindBonusA
}

// AuditOutcome labels the result of a state-changing attempt.
type AuditOutcome string

const (
	OutcomeSuccess  AuditOutcome = "success"
	OutcomeRejected AuditOutcome = "rejected"
	OutcomePending  AuditOutcome = "pending"
	OutcomeObserved AuditOutcome = "observed"
	OutcomeUnknown  AuditOutcome = "unknown"
)
