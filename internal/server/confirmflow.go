package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// confirmFlow carries the idempotency context for one confirm request.
// beginConfirmFlow handles the replay protocol; persist stores the reply
// and commits so it survives even when the confirmation itself failed.
type confirmFlow struct {
	uow         relationaldb.UnitOfWork
	idem        *service.IdempotencyService
	key         string
	requestHash string
	scope       string
}

// beginConfirmFlow validates the Idempotency-Key header and resolves any
// stored replay. A true second return means the response has been written
// and the handler must stop.
func beginConfirmFlow(
	c *gin.Context,
	uow relationaldb.UnitOfWork,
	operation string,
	boutID uuid.UUID,
	requestPayload map[string]any,
) (*confirmFlow, bool) {
	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if key == "" {
		respondError(c, http.StatusBadRequest, "Idempotency-Key header is required.")
		return nil, true
	}

	requestHash, err := service.HashRequestPayload(requestPayload)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Request payload could not be hashed.")
		return nil, true
	}

	flow := &confirmFlow{
		uow:         uow,
		idem:        service.NewIdempotencyService(uow),
		key:         key,
		requestHash: requestHash,
		scope:       service.BuildConfirmScope(operation, boutID),
	}

	replay, err := flow.idem.LoadReplay(c.Request.Context(), flow.scope, flow.key, flow.requestHash)
	if err != nil {
		if errors.Is(err, domain.ErrIdempotencyKeyMismatch) {
			uow.Rollback()
			respondError(c, http.StatusConflict, "Idempotency-Key was already used with a different request payload.")
			return nil, true
		}
		uow.Rollback()
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return nil, true
	}
	if replay != nil {
		uow.Rollback()
		c.JSON(replay.StatusCode, replay.Body)
		return nil, true
	}
	return flow, false
}

// persist stores the reply under the idempotency key and commits the
// transaction. Failure replies persist too so retries replay them.
func (f *confirmFlow) persist(c *gin.Context, statusCode int, body map[string]any, persistenceErrorDetail string) bool {
	if err := f.idem.StoreResponse(c.Request.Context(), f.scope, f.key, f.requestHash, statusCode, body); err != nil {
		f.uow.Rollback()
		respondError(c, http.StatusConflict, persistenceErrorDetail)
		return false
	}
	if err := f.uow.Commit(); err != nil {
		f.uow.Rollback()
		respondError(c, http.StatusConflict, persistenceErrorDetail)
		return false
	}
	return true
}
