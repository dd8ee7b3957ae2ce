package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/confirm"
	"github.com/fightpurse/fightpursed/internal/core/escrowtx"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// PayoutPrepareItem is one unsigned close transaction in the payout plan.
type PayoutPrepareItem struct {
	EscrowID   uuid.UUID
	EscrowKind domain.EscrowKind
	Action     confirm.PayoutAction
	UnsignedTx map[string]any
}

// PayoutService drives the settlement phase: result entry, the payout plan,
// and close confirmations.
type PayoutService struct {
	uow relationaldb.UnitOfWork
	now func() time.Time
}

func NewPayoutService(uow relationaldb.UnitOfWork) *PayoutService {
	return &PayoutService{uow: uow, now: utcNow}
}

// EnterBoutResult records the winner and advances the bout to
// result_entered.
func (s *PayoutService) EnterBoutResult(ctx context.Context, boutID uuid.UUID, winner domain.BoutWinner, actorUserID uuid.UUID) (*domain.Bout, error) {
	bout, err := s.uow.Bouts().Get(ctx, boutID)
	if err != nil {
		return nil, err
	}
	if bout.Status != domain.BoutEscrowsCreated {
		return nil, domain.ErrBoutNotInEscrowsCreatedState
	}

	status, err := domain.NextBoutStatus(bout.Status, domain.BoutEventResultEntered)
	if err != nil {
		return nil, err
	}
	bout.Winner = &winner
	bout.Status = status
	if err := s.uow.Bouts().UpdateState(ctx, bout); err != nil {
		return nil, err
	}
	err = appendAudit(ctx, s.uow.AuditLogs(), &actorUserID,
		"bout_result_enter", "bout", bout.ID.String(), domain.OutcomeSuccess,
		map[string]any{"winner": string(winner), "status": string(bout.Status)}, s.now())
	if err != nil {
		return nil, err
	}
	return bout, nil
}

// PreparePayoutPayloads builds the deterministic payout plan: finish both
// shows, finish the winner bonus with its fulfillment, cancel the loser
// bonus. Escrows already in their terminal state for the planned action are
// skipped so retries converge.
func (s *PayoutService) PreparePayoutPayloads(ctx context.Context, boutID uuid.UUID) (*domain.Bout, []PayoutPrepareItem, error) {
	bout, err := s.uow.Bouts().Get(ctx, boutID)
	if err != nil {
		return nil, nil, err
	}
	if bout.Status != domain.BoutResultEntered && bout.Status != domain.BoutPayoutsInProgress {
		return nil, nil, domain.ErrBoutNotPreparableForPayout
	}
	if bout.Winner == nil {
		return nil, nil, domain.ErrBoutWinnerNotSet
	}

	byKind, err := loadEscrowsByKind(ctx, s.uow.Escrows(), boutID)
	if err != nil {
		return nil, nil, err
	}
	winnerBonus, loserBonus := bout.Winner.BonusKinds()
	winnerFulfillment, err := requiredFulfillmentHex(byKind[winnerBonus])
	if err != nil {
		return nil, nil, err
	}

	plan := []struct {
		kind           domain.EscrowKind
		action         confirm.PayoutAction
		fulfillmentHex *string
	}{
		{domain.KindShowA, confirm.ActionFinish, nil},
		{domain.KindShowB, confirm.ActionFinish, nil},
		{winnerBonus, confirm.ActionFinish, &winnerFulfillment},
		{loserBonus, confirm.ActionCancel, nil},
	}

	var items []PayoutPrepareItem
	for _, step := range plan {
		escrow := byKind[step.kind]
		if escrow.Status == domain.EscrowCreated {
			var tx map[string]any
			if step.action == confirm.ActionFinish {
				tx, err = escrowtx.BuildEscrowFinishTx(escrow, step.fulfillmentHex)
			} else {
				tx, err = escrowtx.BuildEscrowCancelTx(escrow)
			}
			if err != nil {
				return nil, nil, err
			}
			items = append(items, PayoutPrepareItem{
				EscrowID:   escrow.ID,
				EscrowKind: escrow.Kind,
				Action:     step.action,
				UnsignedTx: tx,
			})
			continue
		}
		if step.action == confirm.ActionFinish && escrow.Status == domain.EscrowFinished {
			continue
		}
		if step.action == confirm.ActionCancel && escrow.Status == domain.EscrowCancelled {
			continue
		}
		return nil, nil, domain.ErrEscrowNotPreparableForPayout
	}
	return bout, items, nil
}

// ConfirmPayout applies one validated finish or cancel confirmation. The
// first confirmed payout moves the bout to payouts_in_progress; once both
// shows and the winner bonus are finished the bout closes.
func (s *PayoutService) ConfirmPayout(
	ctx context.Context,
	boutID uuid.UUID,
	kind domain.EscrowKind,
	conf *confirm.PayoutConfirmation,
) (*domain.Bout, *domain.Escrow, error) {
	bout, err := s.uow.Bouts().Get(ctx, boutID)
	if err != nil {
		return nil, nil, err
	}
	if bout.Status != domain.BoutResultEntered && bout.Status != domain.BoutPayoutsInProgress {
		return nil, nil, domain.ErrBoutNotInPayoutState
	}
	if bout.Winner == nil {
		return nil, nil, domain.ErrBoutWinnerNotSet
	}

	escrow, err := s.uow.Escrows().GetByBoutKind(ctx, boutID, kind)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Status != domain.EscrowCreated {
		return nil, nil, domain.ErrEscrowNotCreated
	}

	expectedAction, expectedFulfillment, err := expectedActionForEscrow(*bout.Winner, escrow)
	if err != nil {
		return nil, nil, err
	}

	if err := confirm.ValidatePayoutConfirmation(escrow, conf, expectedAction, expectedFulfillment); err != nil {
		failure := stampConfirmationFailure(escrow, err.Error(), conf.Validated, conf.EngineResult)
		if err := s.uow.Escrows().UpdateState(ctx, escrow); err != nil {
			return nil, nil, err
		}
		auditErr := appendAudit(ctx, s.uow.AuditLogs(), nil,
			"escrow_payout_confirm", "escrow", escrow.ID.String(), domain.OutcomeRejected,
			map[string]any{
				"reason":       failure.Reason,
				"failure_code": failure.Code,
				"escrow_kind":  string(escrow.Kind),
				"tx_hash":      conf.TxHash,
			}, s.now())
		if auditErr != nil {
			return nil, nil, auditErr
		}
		return nil, nil, failure
	}

	event := domain.EscrowEventFinishConfirmed
	if expectedAction == confirm.ActionCancel {
		event = domain.EscrowEventCancelConfirmed
	}
	next, err := domain.NextEscrowStatus(escrow.Status, event)
	if err != nil {
		return nil, nil, err
	}
	escrow.Status = next
	closeHash := conf.TxHash
	escrow.CloseTxHash = &closeHash
	escrow.FailureCode = nil
	escrow.FailureReason = nil
	if err := s.uow.Escrows().UpdateState(ctx, escrow); err != nil {
		return nil, nil, err
	}

	if bout.Status == domain.BoutResultEntered {
		status, err := domain.NextBoutStatus(bout.Status, domain.BoutEventFirstPayoutConfirmed)
		if err != nil {
			return nil, nil, err
		}
		bout.Status = status
		if err := s.uow.Bouts().UpdateState(ctx, bout); err != nil {
			return nil, nil, err
		}
	}
	err = appendAudit(ctx, s.uow.AuditLogs(), nil,
		"escrow_payout_confirm", "escrow", escrow.ID.String(), domain.OutcomeSuccess,
		map[string]any{
			"escrow_kind": string(escrow.Kind),
			"status":      string(escrow.Status),
			"tx_hash":     conf.TxHash,
			"bout_status": string(bout.Status),
		}, s.now())
	if err != nil {
		return nil, nil, err
	}

	byKind, err := loadEscrowsByKind(ctx, s.uow.Escrows(), boutID)
	if err != nil {
		return nil, nil, err
	}
	if domain.CanCloseBout(*bout.Winner, byKind) {
		status, err := domain.NextBoutStatus(bout.Status, domain.BoutEventClosureSatisfied)
		if err != nil {
			return nil, nil, err
		}
		bout.Status = status
		if err := s.uow.Bouts().UpdateState(ctx, bout); err != nil {
			return nil, nil, err
		}
		err = appendAudit(ctx, s.uow.AuditLogs(), nil,
			"bout_closed", "bout", bout.ID.String(), domain.OutcomeSuccess,
			map[string]any{"status": string(bout.Status)}, s.now())
		if err != nil {
			return nil, nil, err
		}
	}
	return bout, escrow, nil
}

// expectedActionForEscrow resolves the planned close action for an escrow
// given the recorded winner.
func expectedActionForEscrow(winner domain.BoutWinner, escrow *domain.Escrow) (confirm.PayoutAction, *string, error) {
	winnerBonus, loserBonus := winner.BonusKinds()
	switch escrow.Kind {
	case domain.KindShowA, domain.KindShowB:
		return confirm.ActionFinish, nil, nil
	case winnerBonus:
		fulfillment, err := requiredFulfillmentHex(escrow)
		if err != nil {
			return "", nil, err
		}
		return confirm.ActionFinish, &fulfillment, nil
	case loserBonus:
		return confirm.ActionCancel, nil, nil
	}
	return "", nil, domain.ErrEscrowKindNotSupported
}

func requiredFulfillmentHex(escrow *domain.Escrow) (string, error) {
	if escrow.EncryptedPreimageHex == nil || *escrow.EncryptedPreimageHex == "" {
		return "", domain.ErrWinnerBonusFulfillmentMissing
	}
	return *escrow.EncryptedPreimageHex, nil
}
