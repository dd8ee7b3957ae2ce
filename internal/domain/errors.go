package domain

import "errors"

// Stable error codes. The error text is the wire-visible snake_case code;
// the HTTP layer maps these to status codes and human detail strings.
var (
	// Lookup failures
	ErrBoutNotFound           = errors.New("bout_not_found")
	ErrEscrowNotFound         = errors.New("escrow_not_found")
	ErrUserNotFound           = errors.New("user_not_found")
	ErrFighterProfileNotFound = errors.New("fighter_profile_not_found")

	// Input validation
	ErrInvalidUserRole     = errors.New("user_role_invalid")
	ErrInvalidEscrowKind   = errors.New("escrow_kind_invalid")
	ErrInvalidBoutWinner   = errors.New("bout_winner_invalid")
	ErrFightersNotDistinct = errors.New("fighters_must_be_distinct")

	// Bout state conflicts
	ErrBoutNotInDraftState          = errors.New("bout_not_in_draft_state")
	ErrBoutNotPreparableForEscrow   = errors.New("bout_not_preparable_for_escrow_create")
	ErrBoutNotInEscrowsCreatedState = errors.New("bout_not_in_escrows_created_state")
	ErrBoutNotPreparableForPayout   = errors.New("bout_not_preparable_for_payout")
	ErrBoutNotInPayoutState         = errors.New("bout_not_in_payout_state")
	ErrBoutWinnerNotSet             = errors.New("bout_winner_not_set")
	ErrBoutEscrowSetInvalid         = errors.New("bout_escrow_set_invalid")

	// Escrow state conflicts
	ErrEscrowNotPlanned              = errors.New("escrow_not_planned")
	ErrEscrowNotCreated              = errors.New("escrow_not_created")
	ErrEscrowNotPreparableForCreate  = errors.New("escrow_not_preparable_for_create")
	ErrEscrowNotPreparableForPayout  = errors.New("escrow_not_preparable_for_payout")
	ErrEscrowKindNotSupported        = errors.New("escrow_kind_not_supported")
	ErrWinnerBonusFulfillmentMissing = errors.New("winner_bonus_fulfillment_missing")

	// Auth
	ErrEmailAlreadyExists = errors.New("email_already_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrPasswordTooShort   = errors.New("password_too_short")

	// State machine guards
	ErrIllegalBoutTransition   = errors.New("bout_transition_illegal")
	ErrIllegalEscrowTransition = errors.New("escrow_transition_illegal")

	// Idempotency
	ErrIdempotencyKeyMismatch = errors.New("idempotency_key_reused_with_different_payload")
	ErrIdempotencyBodyInvalid = errors.New("idempotency_response_body_must_be_json_object")
)

// ConfirmationFailedError carries a taxonomy-classified failure out of a
// confirm path. Code is one of the stable classified codes; Reason is the
// machine-parseable failure reason persisted on the escrow.
type ConfirmationFailedError struct {
	Code   string
	Reason string
}

func (e *ConfirmationFailedError) Error() string {
	return e.Code
}
