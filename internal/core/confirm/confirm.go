// Package confirm validates observed ledger confirmations against the
// recorded escrow plan. The validators are pure predicates: they mutate
// nothing and fail with a specific code on the first mismatched invariant.
package confirm

import (
	"errors"

	"github.com/fightpurse/fightpursed/internal/core/condition"
	"github.com/fightpurse/fightpursed/internal/domain"
)

// Validation error codes, raised in check order.
var (
	ErrTxNotValidated             = errors.New("ledger_tx_not_validated")
	ErrTxNotSuccess               = errors.New("ledger_tx_not_success")
	ErrOwnerAddressMismatch       = errors.New("ledger_owner_address_mismatch")
	ErrDestinationAddressMismatch = errors.New("ledger_destination_address_mismatch")
	ErrAmountMismatch             = errors.New("ledger_amount_mismatch")
	ErrFinishAfterMismatch        = errors.New("ledger_finish_after_mismatch")
	ErrCancelAfterMismatch        = errors.New("ledger_cancel_after_mismatch")
	ErrConditionMismatch          = errors.New("ledger_condition_mismatch")
	ErrOfferSequenceMissing       = errors.New("escrow_offer_sequence_missing")
	ErrOfferSequenceMismatch      = errors.New("ledger_offer_sequence_mismatch")
	ErrTransactionTypeMismatch    = errors.New("ledger_transaction_type_mismatch")
	ErrFinishBeforeAllowed        = errors.New("ledger_finish_before_allowed")
	ErrCancelAfterMissing         = errors.New("ledger_cancel_after_missing")
	ErrCancelBeforeAllowed        = errors.New("ledger_cancel_before_allowed")
	ErrFulfillmentMismatch        = errors.New("ledger_fulfillment_mismatch")
	ErrUnexpectedFulfillment      = errors.New("ledger_unexpected_fulfillment")
)

// CreateConfirmation is an observed EscrowCreate outcome as reported by the
// client after watching the ledger.
type CreateConfirmation struct {
	TxHash             string
	OfferSequence      int64
	Validated          bool
	EngineResult       string
	OwnerAddress       string
	DestinationAddress string
	AmountDrops        int64
	FinishAfterRipple  int64
	CancelAfterRipple  *int64
	ConditionHex       *string
}

// PayoutAction is the close action expected for an escrow given the result.
type PayoutAction string

const (
	ActionFinish PayoutAction = "finish"
	ActionCancel PayoutAction = "cancel"
)

// PayoutConfirmation is an observed EscrowFinish or EscrowCancel outcome.
type PayoutConfirmation struct {
	TxHash          string
	Validated       bool
	EngineResult    string
	TransactionType string
	OwnerAddress    string
	OfferSequence   int64
	CloseTimeRipple int64
	FulfillmentHex  *string
}

// ValidateEscrowCreateConfirmation checks an EscrowCreate confirmation
// against the recorded plan. Checks run in a fixed order so clients see
// stable codes under replay.
func ValidateEscrowCreateConfirmation(escrow *domain.Escrow, conf *CreateConfirmation) error {
	if !conf.Validated {
		return ErrTxNotValidated
	}
	if conf.EngineResult != "tesSUCCESS" {
		return ErrTxNotSuccess
	}
	if conf.OwnerAddress != escrow.OwnerAddress {
		return ErrOwnerAddressMismatch
	}
	if conf.DestinationAddress != escrow.DestinationAddress {
		return ErrDestinationAddressMismatch
	}
	if conf.AmountDrops != escrow.AmountDrops.Int64() {
		return ErrAmountMismatch
	}
	if conf.FinishAfterRipple != escrow.FinishAfterRipple {
		return ErrFinishAfterMismatch
	}
	if !optionalInt64Equal(conf.CancelAfterRipple, escrow.CancelAfterRipple) {
		return ErrCancelAfterMismatch
	}

	expected, err := condition.NormalizeOptionalHex(escrow.ConditionHex)
	if err != nil {
		return ErrConditionMismatch
	}
	provided, err := condition.NormalizeOptionalHex(conf.ConditionHex)
	if err != nil {
		return ErrConditionMismatch
	}
	if !optionalStringEqual(provided, expected) {
		return ErrConditionMismatch
	}
	return nil
}

// ValidatePayoutConfirmation checks an EscrowFinish or EscrowCancel
// confirmation against the recorded plan and the expected close action.
func ValidatePayoutConfirmation(
	escrow *domain.Escrow,
	conf *PayoutConfirmation,
	expectedAction PayoutAction,
	expectedFulfillmentHex *string,
) error {
	if !conf.Validated {
		return ErrTxNotValidated
	}
	if conf.EngineResult != "tesSUCCESS" {
		return ErrTxNotSuccess
	}
	if conf.OwnerAddress != escrow.OwnerAddress {
		return ErrOwnerAddressMismatch
	}
	if escrow.OfferSequence == nil {
		return ErrOfferSequenceMissing
	}
	if conf.OfferSequence != *escrow.OfferSequence {
		return ErrOfferSequenceMismatch
	}

	if expectedAction == ActionFinish {
		if conf.TransactionType != "EscrowFinish" {
			return ErrTransactionTypeMismatch
		}
		if conf.CloseTimeRipple < escrow.FinishAfterRipple {
			return ErrFinishBeforeAllowed
		}
		return validateFulfillment(expectedFulfillmentHex, conf.FulfillmentHex)
	}

	if conf.TransactionType != "EscrowCancel" {
		return ErrTransactionTypeMismatch
	}
	if escrow.CancelAfterRipple == nil {
		return ErrCancelAfterMissing
	}
	if conf.CloseTimeRipple < *escrow.CancelAfterRipple {
		return ErrCancelBeforeAllowed
	}
	provided, err := condition.NormalizeOptionalHex(conf.FulfillmentHex)
	if err != nil {
		return ErrUnexpectedFulfillment
	}
	if provided != nil {
		return ErrUnexpectedFulfillment
	}
	return nil
}

func validateFulfillment(expectedHex, providedHex *string) error {
	expected, err := condition.NormalizeOptionalHex(expectedHex)
	if err != nil {
		return ErrFulfillmentMismatch
	}
	provided, err := condition.NormalizeOptionalHex(providedHex)
	if err != nil {
		return ErrFulfillmentMismatch
	}
	if expected == nil {
		if provided != nil {
			return ErrUnexpectedFulfillment
		}
		return nil
	}
	if !optionalStringEqual(provided, expected) {
		return ErrFulfillmentMismatch
	}
	return nil
}

func optionalInt64Equal(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func optionalStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
