package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
)

func (s *Server) handleEscrowSigningReconcile(c *gin.Context) {
	s.reconcileSigning(c,
		func(svc *service.SigningReconciliationService, ctx context.Context, params service.ReconcileParams) (*service.ReconcileOutcome, error) {
			return svc.ReconcileEscrowCreateSigning(ctx, params)
		},
		"Escrow signing reconciliation could not be persisted safely.")
}

func (s *Server) handlePayoutSigningReconcile(c *gin.Context) {
	s.reconcileSigning(c,
		func(svc *service.SigningReconciliationService, ctx context.Context, params service.ReconcileParams) (*service.ReconcileOutcome, error) {
			return svc.ReconcilePayoutSigning(ctx, params)
		},
		"Payout signing reconciliation could not be persisted safely.")
}

type reconcileFunc func(svc *service.SigningReconciliationService, ctx context.Context, params service.ReconcileParams) (*service.ReconcileOutcome, error)

func (s *Server) reconcileSigning(c *gin.Context, run reconcileFunc, persistenceErrorDetail string) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}
	var req signingReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}
	kind, err := domain.ParseEscrowKind(req.EscrowKind)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Escrow kind is invalid.")
		return
	}

	actor := actorFrom(c)
	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	outcome, err := run(service.NewSigningReconciliationService(uow, s.xaman), c.Request.Context(), service.ReconcileParams{
		BoutID:         boutID,
		EscrowKind:     kind,
		PayloadID:      req.PayloadID,
		ActorUserID:    actor.UserID,
		ObservedStatus: req.ObservedStatus,
		ObservedTxHash: req.ObservedTxHash,
	})
	if err != nil {
		code, detail := mapSigningReconcileError(err)
		respondError(c, code, detail)
		return
	}
	if err := uow.Commit(); err != nil {
		respondError(c, http.StatusConflict, persistenceErrorDetail)
		return
	}

	c.JSON(http.StatusOK, signingReconcileResponse{
		BoutID:        outcome.Bout.ID.String(),
		EscrowID:      outcome.Escrow.ID.String(),
		EscrowKind:    string(outcome.Escrow.Kind),
		EscrowStatus:  string(outcome.Escrow.Status),
		PayloadID:     outcome.PayloadID,
		SigningStatus: string(outcome.SigningStatus),
		TxHash:        outcome.TxHash,
		FailureCode:   outcome.Escrow.FailureCode,
	})
}
