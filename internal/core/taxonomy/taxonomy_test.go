package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyConfirmationFailure(t *testing.T) {
	tests := []struct {
		name            string
		validationError string
		validated       bool
		engineResult    string
		want            string
	}{
		{"declined exact", "ledger_tx_not_success", true, "declined", CodeSigningDeclined},
		{"declined variant", "ledger_tx_not_success", true, "XAMAN_DECLINED", CodeSigningDeclined},
		{"declined substring", "invalid", true, "wallet declined signing", CodeSigningDeclined},
		{"canceled spelling", "ledger_tx_not_success", true, "canceled", CodeSigningDeclined},
		{"timeout exact", "ledger_tx_not_validated", false, "timeout", CodeConfirmationTimeout},
		{"timeout substring", "ledger_tx_not_success", true, "ledger read timeout", CodeConfirmationTimeout},
		{"timeout whitespace tolerant", "x", true, "  TIMED_OUT  ", CodeConfirmationTimeout},
		{"tec result", "ledger_tx_not_success", true, "tecNO_PERMISSION", CodeLedgerTecTem},
		{"tem result", "ledger_tx_not_success", true, "temMALFORMED", CodeLedgerTecTem},
		{"tem mixed case", "ledger_tx_not_success", true, " TEMbadAmount ", CodeLedgerTecTem},
		{"other engine failure", "ledger_tx_not_success", true, "terRETRY", CodeLedgerNotSuccess},
		{"unvalidated", "ledger_tx_not_validated", false, "tesSUCCESS", CodeConfirmationTimeout},
		{"validated but flagged unvalidated", "ledger_tx_not_validated", true, "tesSUCCESS", CodeLedgerNotValidated},
		{"mismatch fallthrough", "ledger_amount_mismatch", true, "tesSUCCESS", CodeInvalidConfirmation},
		{"condition mismatch fallthrough", "ledger_condition_mismatch", true, "tesSUCCESS", CodeInvalidConfirmation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyConfirmationFailure(tt.validationError, tt.validated, tt.engineResult)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFailureReason(t *testing.T) {
	reason := BuildFailureReason("ledger_amount_mismatch", true, " tesSUCCESS ")
	assert.Equal(t, "validation_error=ledger_amount_mismatch;validated=true;engine_result=tesSUCCESS", reason)

	reason = BuildFailureReason("ledger_tx_not_validated", false, "timeout")
	assert.Equal(t, "validation_error=ledger_tx_not_validated;validated=false;engine_result=timeout", reason)
}
