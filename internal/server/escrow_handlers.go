package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/core/canonjson"
	"github.com/fightpurse/fightpursed/internal/core/confirm"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
)

// signRequestView asks Xaman for a sign request over the unsigned payload.
// Integration failures surface as 502 so clients can retry the prepare.
func (s *Server) signRequestView(c *gin.Context, txJSON map[string]any, reference string) (*xamanSignRequestView, bool) {
	signRequest, err := s.xaman.CreateSignRequest(c.Request.Context(), txJSON, reference)
	if err != nil {
		respondError(c, http.StatusBadGateway, "Xaman signing request could not be prepared.")
		return nil, false
	}
	return &xamanSignRequestView{
		PayloadID:          signRequest.PayloadID,
		DeepLinkURL:        signRequest.DeepLinkURL,
		QRPNGURL:           signRequest.QRPNGURL,
		WebsocketStatusURL: signRequest.WebsocketStatusURL,
		Mode:               signRequest.Mode,
	}, true
}

func (s *Server) handleEscrowPrepare(c *gin.Context) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}

	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	bout, items, err := service.NewEscrowService(uow).PrepareEscrowCreatePayloads(c.Request.Context(), boutID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBoutNotFound):
			respondError(c, http.StatusNotFound, "Bout was not found.")
		case errors.Is(err, domain.ErrBoutNotPreparableForEscrow),
			errors.Is(err, domain.ErrEscrowNotPreparableForCreate):
			respondError(c, http.StatusConflict, "Escrow create prepare is not allowed in the current state.")
		default:
			respondError(c, http.StatusUnprocessableEntity, "Bout escrow plan is invalid.")
		}
		return
	}

	views := make([]escrowPrepareItem, 0, len(items))
	for _, item := range items {
		reference := fmt.Sprintf("escrow_create_prepare:%s:%s", bout.ID, item.EscrowID)
		signRequest, ok := s.signRequestView(c, item.UnsignedTx, reference)
		if !ok {
			return
		}
		views = append(views, escrowPrepareItem{
			EscrowID:         item.EscrowID.String(),
			EscrowKind:       string(item.EscrowKind),
			UnsignedTx:       item.UnsignedTx,
			XamanSignRequest: signRequest,
		})
	}

	c.JSON(http.StatusOK, escrowPrepareResponse{
		BoutID:  bout.ID.String(),
		Escrows: views,
	})
}

func (s *Server) handleEscrowConfirm(c *gin.Context) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}
	var req escrowConfirmRequest
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

	flow, done := beginConfirmFlow(c, uow, "escrow_create_confirm", boutID, requestPayload)
	if done {
		return
	}

	conf := &confirm.CreateConfirmation{
		TxHash:             req.TxHash,
		OfferSequence:      req.OfferSequence,
		Validated:          req.Validated,
		EngineResult:       req.EngineResult,
		OwnerAddress:       req.OwnerAddress,
		DestinationAddress: req.DestinationAddress,
		AmountDrops:        req.AmountDrops,
		FinishAfterRipple:  req.FinishAfterRipple,
		CancelAfterRipple:  req.CancelAfterRipple,
		ConditionHex:       req.ConditionHex,
	}

	bout, escrow, err := service.NewEscrowService(uow).ConfirmEscrowCreate(c.Request.Context(), boutID, kind, conf)
	if err != nil {
		code, detail := mapEscrowCreateConfirmError(err)
		if flow.persist(c, code, map[string]any{"detail": detail}, "Escrow confirmation could not be persisted safely.") {
			c.JSON(code, errorResponse{Detail: detail})
		}
		return
	}

	response := escrowConfirmResponse{
		BoutID:        bout.ID.String(),
		EscrowID:      escrow.ID.String(),
		EscrowKind:    string(escrow.Kind),
		EscrowStatus:  string(escrow.Status),
		BoutStatus:    string(bout.Status),
		TxHash:        derefString(escrow.CreateTxHash),
		OfferSequence: derefInt64(escrow.OfferSequence),
	}
	body, err := canonjson.ToObject(response)
	if err != nil {
		uow.Rollback()
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}
	if flow.persist(c, http.StatusOK, body, "Escrow confirmation could not be persisted safely.") {
		c.JSON(http.StatusOK, body)
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
