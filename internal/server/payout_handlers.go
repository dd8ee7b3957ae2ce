package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
	"github.com/fightpurse/fightpursed/internal/core/confirm"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
)

func (s *Server) handlePayoutPrepare(c *gin.Context) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}

	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	bout, items, err := service.NewPayoutService(uow).PreparePayoutPayloads(c.Request.Context(), boutID)
	if err != nil {
		code, detail := mapPayoutPrepareError(err)
		respondError(c, code, detail)
		return
	}

	views := make([]payoutPrepareItem, 0, len(items))
	for _, item := range items {
		reference := fmt.Sprintf("payout_prepare:%s:%s:%s", bout.ID, item.EscrowID, item.Action)
		signRequest, ok := s.signRequestView(c, item.UnsignedTx, reference)
		if !ok {
			return
		}
		views = append(views, payoutPrepareItem{
			EscrowID:         item.EscrowID.String(),
			EscrowKind:       string(item.EscrowKind),
			Action:           string(item.Action),
			UnsignedTx:       item.UnsignedTx,
			XamanSignRequest: signRequest,
		})
	}

	c.JSON(http.StatusOK, payoutPrepareResponse{
		BoutID:     bout.ID.String(),
		BoutStatus: string(bout.Status),
		Escrows:    views,
	})
}

func (s *Server) handlePayoutConfirm(c *gin.Context) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}
	var req payoutConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}
	kind, err := domain.ParseEscrowKind(req.EscrowKind)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Escrow kind is invalid.")
		return
	}
	requestPayload, err := canonjson.ToObject(req)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}

	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	flow, done := beginConfirmFlow(c, uow, "payout_confirm", boutID, requestPayload)
	if done {
		return
	}

	conf := &confirm.PayoutConfirmation{
		TxHash:          req.TxHash,
		Validated:       req.Validated,
		EngineResult:    req.EngineResult,
		TransactionType: req.TransactionType,
		OwnerAddress:    req.OwnerAddress,
		OfferSequence:   req.OfferSequence,
		CloseTimeRipple: req.CloseTimeRipple,
		FulfillmentHex:  req.FulfillmentHex,
	}

	bout, escrow, err := service.NewPayoutService(uow).ConfirmPayout(c.Request.Context(), boutID, kind, conf)
	if err != nil {
		code, detail := mapPayoutConfirmError(err)
		if flow.persist(c, code, map[string]any{"detail": detail}, "Payout confirmation could not be persisted safely.") {
			c.JSON(code, errorResponse{Detail: detail})
		}
		return
	}

	response := payoutConfirmResponse{
		BoutID:       bout.ID.String(),
		EscrowID:     escrow.ID.String(),
		EscrowKind:   string(escrow.Kind),
		EscrowStatus: string(escrow.Status),
		BoutStatus:   string(bout.Status),
		TxHash:       derefString(escrow.CloseTxHash),
	}
	body, err := canonjson.ToObject(response)
	if err != nil {
		uow.Rollback()
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if flow.persist(c, http.StatusOK, body, "Payout confirmation could not be persisted safely.") {
		c.JSON(http.StatusOK, body)
	}
}
