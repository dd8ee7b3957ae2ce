package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/confirm"
	"github.com/fightpurse/fightpursed/internal/core/escrowtx"
	"github.com/fightpurse/fightpursed/internal/core/taxonomy"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// EscrowPrepareItem is one unsigned EscrowCreate ready for signing.
type EscrowPrepareItem struct {
	EscrowID   uuid.UUID
	EscrowKind domain.EscrowKind
	UnsignedTx map[string]any
}

// EscrowService drives the deposit phase: deterministic EscrowCreate
// payloads and their ledger confirmations.
type EscrowService struct {
	uow relationaldb.UnitOfWork
	now func() time.Time
}

func NewEscrowService(uow relationaldb.UnitOfWork) *EscrowService {
	return &EscrowService{uow: uow, now: utcNow}
}

// PrepareEscrowCreatePayloads rebuilds the unsigned EscrowCreate set for a
// bout. Safe to call repeatedly; already-created escrows are rebuilt
// identically so retries converge.
func (s *EscrowService) PrepareEscrowCreatePayloads(ctx context.Context, boutID uuid.UUID) (*domain.Bout, []EscrowPrepareItem, error) {
	bout, err := s.uow.Bouts().Get(ctx, boutID)
	if err != nil {
		return nil, nil, err
	}
	if bout.Status != domain.BoutDraft && bout.Status != domain.BoutEscrowsCreated {
		return nil, nil, domain.ErrBoutNotPreparableForEscrow
	}

	escrows, err := loadEscrowsOrdered(ctx, s.uow.Escrows(), boutID)
	if err != nil {
		return nil, nil, err
	}

	items := make([]EscrowPrepareItem, 0, len(escrows))
	for _, escrow := range escrows {
		if escrow.Status != domain.EscrowPlanned && escrow.Status != domain.EscrowCreated {
			return nil, nil, domain.ErrEscrowNotPreparableForCreate
		}
		tx, err := escrowtx.BuildEscrowCreateTx(escrow)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, EscrowPrepareItem{
			EscrowID:   escrow.ID,
			EscrowKind: escrow.Kind,
			UnsignedTx: tx,
		})
	}
	return bout, items, nil
}

// ConfirmEscrowCreate applies one validated EscrowCreate confirmation. A
// failed validation stamps the classified failure on the escrow without
// advancing state; the stamp still persists through the commit. When the
// fourth escrow confirms, the bout advances to escrows_created.
func (s *EscrowService) ConfirmEscrowCreate(
	ctx context.Context,
	boutID uuid.UUID,
	kind domain.EscrowKind,
	conf *confirm.CreateConfirmation,
) (*domain.Bout, *domain.Escrow, error) {
	bout, err := s.uow.Bouts().Get(ctx, boutID)
	if err != nil {
		return nil, nil, err
	}
	if bout.Status != domain.BoutDraft {
		return nil, nil, domain.ErrBoutNotInDraftState
	}

	escrow, err := s.uow.Escrows().GetByBoutKind(ctx, boutID, kind)
	if err != nil {
		return nil, nil, err
	}
	if escrow.Status != domain.EscrowPlanned {
		return nil, nil, domain.ErrEscrowNotPlanned
	}

	if err := confirm.ValidateEscrowCreateConfirmation(escrow, conf); err != nil {
		failure := stampConfirmationFailure(escrow, err.Error(), conf.Validated, conf.EngineResult)
		if err := s.uow.Escrows().UpdateState(ctx, escrow); err != nil {
			return nil, nil, err
		}
		auditErr := appendAudit(ctx, s.uow.AuditLogs(), nil,
			"escrow_create_confirm", "escrow", escrow.ID.String(), domain.OutcomeRejected,
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

	next, err := domain.NextEscrowStatus(escrow.Status, domain.EscrowEventCreateConfirmed)
	if err != nil {
		return nil, nil, err
	}
	escrow.Status = next
	offerSeq := conf.OfferSequence
	txHash := conf.TxHash
	escrow.OfferSequence = &offerSeq
	escrow.CreateTxHash = &txHash
	escrow.FailureCode = nil
	escrow.FailureReason = nil
	if err := s.uow.Escrows().UpdateState(ctx, escrow); err != nil {
		return nil, nil, err
	}
	err = appendAudit(ctx, s.uow.AuditLogs(), nil,
		"escrow_create_confirm", "escrow", escrow.ID.String(), domain.OutcomeSuccess,
		map[string]any{
			"escrow_kind":    string(escrow.Kind),
			"tx_hash":        conf.TxHash,
			"offer_sequence": conf.OfferSequence,
		}, s.now())
	if err != nil {
		return nil, nil, err
	}

	all, err := loadEscrowsOrdered(ctx, s.uow.Escrows(), boutID)
	if err != nil {
		return nil, nil, err
	}
	if allCreated(all) {
		status, err := domain.NextBoutStatus(bout.Status, domain.BoutEventAllEscrowsCreated)
		if err != nil {
			return nil, nil, err
		}
		bout.Status = status
		if err := s.uow.Bouts().UpdateState(ctx, bout); err != nil {
			return nil, nil, err
		}
		err = appendAudit(ctx, s.uow.AuditLogs(), nil,
			"bout_escrows_created", "bout", bout.ID.String(), domain.OutcomeSuccess,
			map[string]any{"status": string(bout.Status)}, s.now())
		if err != nil {
			return nil, nil, err
		}
	}
	return bout, escrow, nil
}

// stampConfirmationFailure classifies a validator error and records it on
// the escrow. Status is untouched.
func stampConfirmationFailure(escrow *domain.Escrow, validationError string, validated bool, engineResult string) *domain.ConfirmationFailedError {
	code := taxonomy.ClassifyConfirmationFailure(validationError, validated, engineResult)
	reason := taxonomy.BuildFailureReason(validationError, validated, engineResult)
	escrow.FailureCode = &code
	escrow.FailureReason = &reason
	return &domain.ConfirmationFailedError{Code: code, Reason: reason}
}

// loadEscrowsOrdered loads the bout's escrows in plan order and verifies the
// set covers exactly the four kinds.
func loadEscrowsOrdered(ctx context.Context, repo relationaldb.EscrowRepository, boutID uuid.UUID) ([]*domain.Escrow, error) {
	escrows, err := repo.ListByBout(ctx, boutID)
	if err != nil {
		return nil, err
	}
	byKind := make(map[domain.EscrowKind]*domain.Escrow, len(escrows))
	for _, escrow := range escrows {
		byKind[escrow.Kind] = escrow
	}
	if len(escrows) != len(domain.AllEscrowKinds) || len(byKind) != len(domain.AllEscrowKinds) {
		return nil, domain.ErrBoutEscrowSetInvalid
	}
	ordered := make([]*domain.Escrow, 0, len(domain.AllEscrowKinds))
	for _, kind := range domain.AllEscrowKinds {
		escrow, ok := byKind[kind]
		if !ok {
			return nil, domain.ErrBoutEscrowSetInvalid
		}
		ordered = append(ordered, escrow)
	}
	return ordered, nil
}

func loadEscrowsByKind(ctx context.Context, repo relationaldb.EscrowRepository, boutID uuid.UUID) (map[domain.EscrowKind]*domain.Escrow, error) {
	ordered, err := loadEscrowsOrdered(ctx, repo, boutID)
	if err != nil {
		return nil, err
	}
	byKind := make(map[domain.EscrowKind]*domain.Escrow, len(ordered))
	for _, escrow := range ordered {
		byKind[escrow.Kind] = escrow
	}
	return byKind, nil
}

func allCreated(escrows []*domain.Escrow) bool {
	for _, escrow := range escrows {
		if escrow.Status != domain.EscrowCreated {
			return false
		}
	}
	return true
}
