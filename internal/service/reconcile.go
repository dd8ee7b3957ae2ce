package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/taxonomy"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
	"github.com/fightpurse/fightpursed/internal/xaman"
)

// ReconcileParams identifies the escrow and payload under reconciliation.
// Observed fields feed stub mode; api mode ignores them.
type ReconcileParams struct {
	BoutID         uuid.UUID
	EscrowKind     domain.EscrowKind
	PayloadID      string
	ActorUserID    uuid.UUID
	ObservedStatus *string
	ObservedTxHash *string
}

// ReconcileOutcome reports the reconciled signing state.
type ReconcileOutcome struct {
	Bout          *domain.Bout
	Escrow        *domain.Escrow
	PayloadID     string
	SigningStatus xaman.PayloadStatus
	TxHash        *string
}

// SigningReconciliationService re-checks the Xaman payload status for an
// escrow and stamps or clears signing failures accordingly. It never
// advances escrow or bout state; only confirm endpoints do that.
type SigningReconciliationService struct {
	uow   relationaldb.UnitOfWork
	xaman xaman.Service
	now   func() time.Time
}

func NewSigningReconciliationService(uow relationaldb.UnitOfWork, xamanService xaman.Service) *SigningReconciliationService {
	return &SigningReconciliationService{uow: uow, xaman: xamanService, now: utcNow}
}

// ReconcileEscrowCreateSigning reconciles a deposit-phase sign request.
func (s *SigningReconciliationService) ReconcileEscrowCreateSigning(ctx context.Context, params ReconcileParams) (*ReconcileOutcome, error) {
	return s.reconcile(ctx, params, "escrow_signing_reconcile")
}

// ReconcilePayoutSigning reconciles a settlement-phase sign request.
func (s *SigningReconciliationService) ReconcilePayoutSigning(ctx context.Context, params ReconcileParams) (*ReconcileOutcome, error) {
	return s.reconcile(ctx, params, "payout_signing_reconcile")
}

func (s *SigningReconciliationService) reconcile(ctx context.Context, params ReconcileParams, action string) (*ReconcileOutcome, error) {
	bout, err := s.uow.Bouts().Get(ctx, params.BoutID)
	if err != nil {
		return nil, err
	}
	escrow, err := s.uow.Escrows().GetByBoutKind(ctx, params.BoutID, params.EscrowKind)
	if err != nil {
		return nil, err
	}

	result, err := s.xaman.GetPayloadStatus(ctx, params.PayloadID, xaman.StatusQuery{
		ObservedStatus: params.ObservedStatus,
		ObservedTxHash: params.ObservedTxHash,
	})
	if err != nil {
		return nil, err
	}

	applySigningClassification(escrow, result)
	if err := s.uow.Escrows().UpdateState(ctx, escrow); err != nil {
		return nil, err
	}

	err = appendAudit(ctx, s.uow.AuditLogs(), &params.ActorUserID,
		action, "escrow", escrow.ID.String(), statusToOutcome(result.Status),
		map[string]any{
			"bout_id":        bout.ID.String(),
			"escrow_kind":    string(escrow.Kind),
			"escrow_status":  string(escrow.Status),
			"payload_id":     result.PayloadID,
			"signing_status": string(result.Status),
			"tx_hash":        optionalString(result.TxHash),
			"failure_code":   optionalString(escrow.FailureCode),
			"mode":           result.Mode,
		}, s.now())
	if err != nil {
		return nil, err
	}

	return &ReconcileOutcome{
		Bout:          bout,
		Escrow:        escrow,
		PayloadID:     result.PayloadID,
		SigningStatus: result.Status,
		TxHash:        result.TxHash,
	}, nil
}

// applySigningClassification stamps declined/expired failures and clears a
// prior signing failure once the payload is signed. Other failure codes are
// left alone.
func applySigningClassification(escrow *domain.Escrow, result *xaman.StatusResult) {
	switch result.Status {
	case xaman.StatusDeclined:
		code := taxonomy.CodeSigningDeclined
		reason := buildSigningFailureReason(result)
		escrow.FailureCode = &code
		escrow.FailureReason = &reason
	case xaman.StatusExpired:
		code := taxonomy.CodeSigningExpired
		reason := buildSigningFailureReason(result)
		escrow.FailureCode = &code
		escrow.FailureReason = &reason
	case xaman.StatusSigned:
		if escrow.FailureCode != nil &&
			(*escrow.FailureCode == taxonomy.CodeSigningDeclined || *escrow.FailureCode == taxonomy.CodeSigningExpired) {
			escrow.FailureCode = nil
			escrow.FailureReason = nil
		}
	}
}

func buildSigningFailureReason(result *xaman.StatusResult) string {
	txHash := "none"
	if result.TxHash != nil && *result.TxHash != "" {
		txHash = *result.TxHash
	}
	return "payload_id=" + result.PayloadID + ";signing_status=" + string(result.Status) + ";tx_hash=" + txHash
}

func statusToOutcome(status xaman.PayloadStatus) domain.AuditOutcome {
	switch status {
	case xaman.StatusOpen:
		return domain.OutcomePending
	case xaman.StatusDeclined, xaman.StatusExpired:
		return domain.OutcomeRejected
	case xaman.StatusSigned:
		return domain.OutcomeObserved
	}
	return domain.OutcomeUnknown
}

func optionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
