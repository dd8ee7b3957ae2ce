// Package escrowtx assembles unsigned XRPL escrow transactions.
//
// The output maps use bit-exact XRPL field vocabulary and travel as JSON to
// the signing wallet; the service never submits them to the ledger itself.
package escrowtx

import (
	"errors"

	"github.com/fightpurse/fightpursed/internal/core/condition"
	"github.com/fightpurse/fightpursed/internal/domain"
)

var ErrOfferSequenceMissing = errors.New("escrow_offer_sequence_missing")

// BuildEscrowCreateTx emits the EscrowCreate payload for a planned escrow.
// CancelAfter and Condition appear only when the plan carries them.
func BuildEscrowCreateTx(escrow *domain.Escrow) (map[string]any, error) {
	tx := map[string]any{
		"TransactionType": "EscrowCreate",
		"Account":         escrow.OwnerAddress,
		"Destination":     escrow.DestinationAddress,
		"Amount":          escrow.AmountDrops.String(),
		"FinishAfter":     escrow.FinishAfterRipple,
	}
	if escrow.CancelAfterRipple != nil {
		tx["CancelAfter"] = *escrow.CancelAfterRipple
	}
	if escrow.ConditionHex != nil {
		tx["Condition"] = *escrow.ConditionHex
	}
	return tx, nil
}

// BuildEscrowFinishTx emits the EscrowFinish payload for a created escrow.
// The fulfillment is attached only for the winner bonus.
func BuildEscrowFinishTx(escrow *domain.Escrow, fulfillmentHex *string) (map[string]any, error) {
	if escrow.OfferSequence == nil {
		return nil, ErrOfferSequenceMissing
	}
	tx := map[string]any{
		"TransactionType": "EscrowFinish",
		"Account":         escrow.OwnerAddress,
		"Owner":           escrow.OwnerAddress,
		"OfferSequence":   *escrow.OfferSequence,
	}
	normalized, err := condition.NormalizeOptionalHex(fulfillmentHex)
	if err != nil {
		return nil, err
	}
	if normalized != nil {
		tx["Fulfillment"] = *normalized
	}
	return tx, nil
}

// BuildEscrowCancelTx emits the EscrowCancel payload for a created escrow.
func BuildEscrowCancelTx(escrow *domain.Escrow) (map[string]any, error) {
	if escrow.OfferSequence == nil {
		return nil, ErrOfferSequenceMissing
	}
	return map[string]any{
		"TransactionType": "EscrowCancel",
		"Account":         escrow.OwnerAddress,
		"Owner":           escrow.OwnerAddress,
		"OfferSequence":   *escrow.OfferSequence,
	}, nil
}
