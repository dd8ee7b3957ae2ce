// Package taxonomy classifies confirmation failures into stable user-facing
// codes. The classifier is case-insensitive and whitespace-tolerant so the
// same upstream failure always lands on the same code.
package taxonomy

import (
	"fmt"
	"strings"
)

// Classified failure codes persisted on escrows and surfaced to clients.
const (
	CodeSigningDeclined     = "signing_declined"
	CodeConfirmationTimeout = "confirmation_timeout"
	CodeLedgerTecTem        = "ledger_tec_tem"
	CodeLedgerNotSuccess    = "ledger_not_success"
	CodeLedgerNotValidated  = "ledger_not_validated"
	CodeInvalidConfirmation = "invalid_confirmation"

	// CodeSigningExpired is set by signing reconciliation, not the classifier.
	CodeSigningExpired = "signing_expired"
)

var declinedEngineResults = map[string]struct{}{
	"declined":         {},
	"signing_declined": {},
	"user_declined":    {},
	"xaman_declined":   {},
	"cancelled":        {},
	"canceled":         {},
}

var timeoutEngineResults = map[string]struct{}{
	"timeout":              {},
	"timed_out":            {},
	"confirmation_timeout": {},
	"ledger_timeout":       {},
	"tx_timeout":           {},
}

// ClassifyConfirmationFailure maps a validator error code plus the observed
// (validated, engine_result) pair onto a classified failure code.
func ClassifyConfirmationFailure(validationError string, validated bool, engineResult string) string {
	normalized := strings.ToLower(strings.TrimSpace(engineResult))

	if _, ok := declinedEngineResults[normalized]; ok || strings.Contains(normalized, "declined") {
		return CodeSigningDeclined
	}
	if _, ok := timeoutEngineResults[normalized]; ok || strings.Contains(normalized, "timeout") {
		return CodeConfirmationTimeout
	}

	if validationError == "ledger_tx_not_success" {
		if strings.HasPrefix(normalized, "tec") || strings.HasPrefix(normalized, "tem") {
			return CodeLedgerTecTem
		}
		return CodeLedgerNotSuccess
	}

	if validationError == "ledger_tx_not_validated" {
		// Unvalidated confirmations fall in the timeout class so clients retry.
		if !validated {
			return CodeConfirmationTimeout
		}
		return CodeLedgerNotValidated
	}

	return CodeInvalidConfirmation
}

// BuildFailureReason renders the machine-parseable reason persisted alongside
// a classified failure code.
func BuildFailureReason(validationError string, validated bool, engineResult string) string {
	return fmt.Sprintf(
		"validation_error=%s;validated=%t;engine_result=%s",
		validationError, validated, strings.TrimSpace(engineResult),
	)
}
