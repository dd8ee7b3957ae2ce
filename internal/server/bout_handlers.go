package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/drops"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
)

func parseBoutID(c *gin.Context) (uuid.UUID, bool) {
	boutID, err := uuid.Parse(c.Param("bout_id"))
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Bout id must be a valid UUID.")
		return uuid.Nil, false
	}
	return boutID, true
}

func (s *Server) handleCreateBout(c *gin.Context) {
	var req createBoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}

	fighterA, errA := uuid.Parse(req.FighterAUserID)
	fighterB, errB := uuid.Parse(req.FighterBUserID)
	if errA != nil || errB != nil {
		respondError(c, http.StatusUnprocessableEntity, "Fighter ids must be valid UUIDs.")
		return
	}

	amounts := make([]drops.Drops, 4)
	for i, raw := range []int64{req.ShowADrops, req.ShowBDrops, req.BonusADrops, req.BonusBDrops} {
		amount, err := drops.New(raw)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "Escrow amounts must be non-negative drops.")
			return
		}
		amounts[i] = amount
	}

	actor := actorFrom(c)
	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	bout, escrows, err := service.NewBoutService(uow).CreateBoutDraft(c.Request.Context(), service.CreateBoutParams{
		PromoterUserID:       actor.UserID,
		FighterAUserID:       fighterA,
		FighterBUserID:       fighterB,
		EventDatetimeUTC:     req.EventDatetimeUTC,
		PromoterOwnerAddress: req.PromoterOwnerAddress,
		FighterADestination:  req.FighterADestination,
		FighterBDestination:  req.FighterBDestination,
		ShowADrops:           amounts[0],
		ShowBDrops:           amounts[1],
		BonusADrops:          amounts[2],
		BonusBDrops:          amounts[3],
	})
	if err != nil {
		if errors.Is(err, domain.ErrFightersNotDistinct) {
			respondError(c, http.StatusUnprocessableEntity, "Fighters must be distinct accounts.")
			return
		}
		respondError(c, http.StatusBadRequest, "Bout request is invalid.")
		return
	}
	if err := uow.Commit(); err != nil {
		respondError(c, http.StatusConflict, "Bout could not be persisted safely.")
		return
	}

	views := make([]boutEscrowView, 0, len(escrows))
	for _, escrow := range escrows {
		views = append(views, boutEscrowView{
			EscrowID:     escrow.ID.String(),
			EscrowKind:   string(escrow.Kind),
			EscrowStatus: string(escrow.Status),
			AmountDrops:  escrow.AmountDrops.Int64(),
			ConditionHex: escrow.ConditionHex,
		})
	}
	c.JSON(http.StatusCreated, createBoutResponse{
		BoutID:         bout.ID.String(),
		BoutStatus:     string(bout.Status),
		FinishAfterUTC: bout.FinishAfterUTC,
		CancelAfterUTC: bout.CancelAfterUTC,
		Escrows:        views,
	})
}

func (s *Server) handleEnterResult(c *gin.Context) {
	boutID, ok := parseBoutID(c)
	if !ok {
		return
	}
	var req boutResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}
	winner, err := domain.ParseBoutWinner(req.Winner)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Winner is invalid.")
		return
	}

	actor := actorFrom(c)
	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	bout, err := service.NewPayoutService(uow).EnterBoutResult(c.Request.Context(), boutID, winner, actor.UserID)
	if err != nil {
		code, detail := mapResultError(err)
		respondError(c, code, detail)
		return
	}
	if err := uow.Commit(); err != nil {
		respondError(c, http.StatusConflict, "Bout result could not be persisted safely.")
		return
	}

	c.JSON(http.StatusOK, boutResultResponse{
		BoutID:     bout.ID.String(),
		BoutStatus: string(bout.Status),
		Winner:     string(winner),
	})
}
