package domain

import "fmt"

// BoutEvent drives the bout state machine.
type BoutEvent string

const (
	// BoutEventAllEscrowsCreated fires when the fourth escrow confirms CREATED.
	BoutEventAllEscrowsCreated BoutEvent = "all_escrows_created"
	// BoutEventResultEntered fires when an admin records the winner.
	BoutEventResultEntered BoutEvent = "result_entered"
	// BoutEventFirstPayoutConfirmed fires on the first validated payout.
	BoutEventFirstPayoutConfirmed BoutEvent = "first_payout_confirmed"
	// BoutEventClosureSatisfied fires when both shows and the winner bonus
	// are FINISHED. The loser bonus does not gate closure.
	BoutEventClosureSatisfied BoutEvent = "closure_satisfied"
)

// NextBoutStatus is the single legal-transition table for bouts. Any
// (status, event) pair not listed is illegal.
func NextBoutStatus(from BoutStatus, event BoutEvent) (BoutStatus, error) {
	switch {
	case from == BoutDraft && event == BoutEventAllEscrowsCreated:
		return BoutEscrowsCreated, nil
	case from == BoutEscrowsCreated && event == BoutEventResultEntered:
		return BoutResultEntered, nil
	case from == BoutResultEntered && event == BoutEventFirstPayoutConfirmed:
		return BoutPayoutsInProgress, nil
	case from == BoutPayoutsInProgress && event == BoutEventClosureSatisfied:
		return BoutClosed, nil
	}
	return "", fmt.Errorf("%w: %s on %s", ErrIllegalBoutTransition, event, from)
}

// EscrowEvent drives the escrow state machine.
type EscrowEvent string

const (
	EscrowEventCreateConfirmed EscrowEvent = "create_confirmed"
	EscrowEventFinishConfirmed EscrowEvent = "finish_confirmed"
	EscrowEventCancelConfirmed EscrowEvent = "cancel_confirmed"
)

// NextEscrowStatus is the single legal-transition table for escrows.
// Confirmation failures never transition; they only stamp failure fields.
func NextEscrowStatus(from EscrowStatus, event EscrowEvent) (EscrowStatus, error) {
	switch {
	case from == EscrowPlanned && event == EscrowEventCreateConfirmed:
		return EscrowCreated, nil
	case from == EscrowCreated && event == EscrowEventFinishConfirmed:
		return EscrowFinished, nil
	case from == EscrowCreated && event == EscrowEventCancelConfirmed:
		return EscrowCancelled, nil
	}
	return "", fmt.Errorf("%w: %s on %s", ErrIllegalEscrowTransition, event, from)
}

// CanCloseBout is the closure predicate: both show purses and the winner
// bonus are FINISHED. The loser bonus may stay CREATED until its cancel
// window elapses.
func CanCloseBout(winner BoutWinner, escrowsByKind map[EscrowKind]*Escrow) bool {
	winnerBonus, _ := winner.BonusKinds()
	showA, okA := escrowsByKind[KindShowA]
	showB, okB := escrowsByKind[KindShowB]
	bonus, okW := escrowsByKind[winnerBonus]
	if !okA || !okB || !okW {
		return false
	}
	return showA.Status == EscrowFinished &&
		showB.Status == EscrowFinished &&
		bonus.Status == EscrowFinished
}
