package server

import (
	"errors"
	"net/http"

	"github.com/fightpurse/fightpursed/internal/core/taxonomy"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/xaman"
)

// Human detail strings per classified confirmation failure. Codes outside
// the taxonomy fall back to the generic validation detail.
var confirmationFailureDetails = map[string]string{
	taxonomy.CodeSigningDeclined:     "Signing was declined; no state transition was applied.",
	taxonomy.CodeConfirmationTimeout: "Confirmation timed out or remained unvalidated; no state transition was applied.",
	taxonomy.CodeLedgerTecTem:        "Ledger transaction was rejected with tec/tem; no state transition was applied.",
	taxonomy.CodeLedgerNotSuccess:    "Ledger transaction did not succeed; no state transition was applied.",
	taxonomy.CodeLedgerNotValidated:  "Ledger transaction was not validated; no state transition was applied.",
	taxonomy.CodeInvalidConfirmation: "Ledger confirmation failed validation.",
}

func confirmationFailureDetail(code string) string {
	if detail, ok := confirmationFailureDetails[code]; ok {
		return detail
	}
	return "Ledger confirmation failed validation."
}

func mapEscrowCreateConfirmError(err error) (int, string) {
	var failure *domain.ConfirmationFailedError
	if errors.As(err, &failure) {
		return http.StatusUnprocessableEntity, confirmationFailureDetail(failure.Code)
	}
	switch {
	case errors.Is(err, domain.ErrBoutNotFound), errors.Is(err, domain.ErrEscrowNotFound):
		return http.StatusNotFound, "Requested bout/escrow was not found."
	case errors.Is(err, domain.ErrBoutNotInDraftState), errors.Is(err, domain.ErrEscrowNotPlanned):
		return http.StatusConflict, "Escrow confirmation is not allowed in current state."
	}
	return http.StatusBadRequest, "Escrow confirmation request is invalid."
}

func mapResultError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBoutNotFound):
		return http.StatusNotFound, "Requested bout was not found."
	case errors.Is(err, domain.ErrBoutNotInEscrowsCreatedState):
		return http.StatusConflict, "Bout result cannot be entered in current state."
	}
	return http.StatusBadRequest, "Bout result request is invalid."
}

func mapPayoutPrepareError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBoutNotFound):
		return http.StatusNotFound, "Requested bout was not found."
	case errors.Is(err, domain.ErrBoutNotPreparableForPayout),
		errors.Is(err, domain.ErrEscrowNotPreparableForPayout),
		errors.Is(err, domain.ErrBoutWinnerNotSet):
		return http.StatusConflict, "Payout prepare is not allowed in current state."
	case errors.Is(err, domain.ErrBoutEscrowSetInvalid),
		errors.Is(err, domain.ErrWinnerBonusFulfillmentMissing):
		return http.StatusUnprocessableEntity, "Payout setup is invalid."
	}
	return http.StatusBadRequest, "Payout prepare request is invalid."
}

func mapPayoutConfirmError(err error) (int, string) {
	var failure *domain.ConfirmationFailedError
	if errors.As(err, &failure) {
		return http.StatusUnprocessableEntity, confirmationFailureDetail(failure.Code)
	}
	switch {
	case errors.Is(err, domain.ErrBoutNotFound), errors.Is(err, domain.ErrEscrowNotFound):
		return http.StatusNotFound, "Requested bout/escrow was not found."
	case errors.Is(err, domain.ErrBoutNotInPayoutState),
		errors.Is(err, domain.ErrEscrowNotCreated),
		errors.Is(err, domain.ErrBoutWinnerNotSet):
		return http.StatusConflict, "Payout confirmation is not allowed in current state."
	case errors.Is(err, domain.ErrWinnerBonusFulfillmentMissing),
		errors.Is(err, domain.ErrBoutEscrowSetInvalid):
		return http.StatusUnprocessableEntity, "Payout setup is invalid."
	}
	return http.StatusBadRequest, "Payout confirmation request is invalid."
}

func mapSigningReconcileError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBoutNotFound), errors.Is(err, domain.ErrEscrowNotFound):
		return http.StatusNotFound, "Requested bout/escrow was not found."
	case errors.Is(err, xaman.ErrObservedStatusInvalid):
		return http.StatusBadRequest, "Observed signing status is invalid."
	case errors.Is(err, xaman.ErrModeInvalid),
		errors.Is(err, xaman.ErrCredentialsMissing),
		errors.Is(err, xaman.ErrHTTPError),
		errors.Is(err, xaman.ErrConnectionError),
		errors.Is(err, xaman.ErrInvalidJSON),
		errors.Is(err, xaman.ErrInvalidResponse):
		return http.StatusBadGateway, "Xaman payload status could not be reconciled."
	}
	return http.StatusBadRequest, "Signing reconciliation request is invalid."
}
