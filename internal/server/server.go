// Package server exposes the HTTP surface: auth, bout planning, escrow
// deposit confirmation, payout settlement, and signing reconciliation.
// Handlers open one transaction per request and own its commit or rollback;
// services stay transaction-agnostic behind the unit of work.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/config"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
	"github.com/fightpurse/fightpursed/internal/xaman"
)

// Server wires configuration, storage, and the Xaman integration into a
// routable HTTP API.
type Server struct {
	cfg    *config.Config
	db     relationaldb.Database
	xaman  xaman.Service
	logger *slog.Logger
}

func New(cfg *config.Config, db relationaldb.Database, xamanService xaman.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, db: db, xaman: xamanService, logger: logger}
}

// Router builds the gin engine with all routes mounted.
func (s *Server) Router() *gin.Engine {
	if s.cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	engine.GET("/healthz", s.handleHealthz)

	engine.POST("/auth/register", s.handleRegister)
	engine.POST("/auth/login", s.handleLogin)

	bouts := engine.Group("/bouts", s.authenticate())
	bouts.POST("", s.requireRole(domain.RolePromoter), s.handleCreateBout)
	bouts.POST("/:bout_id/escrows/prepare", s.requireRole(domain.RolePromoter), s.handleEscrowPrepare)
	bouts.POST("/:bout_id/escrows/confirm", s.requireRole(domain.RolePromoter), s.handleEscrowConfirm)
	bouts.POST("/:bout_id/escrows/signing/reconcile", s.requireRole(domain.RolePromoter), s.handleEscrowSigningReconcile)
	bouts.POST("/:bout_id/result", s.requireRole(domain.RoleAdmin), s.handleEnterResult)
	bouts.POST("/:bout_id/payouts/prepare", s.requireRole(domain.RolePromoter), s.handlePayoutPrepare)
	bouts.POST("/:bout_id/payouts/confirm", s.requireRole(domain.RolePromoter), s.handlePayoutConfirm)
	bouts.POST("/:bout_id/payouts/signing/reconcile", s.requireRole(domain.RolePromoter), s.handlePayoutSigningReconcile)

	return engine
}

func (s *Server) handleHealthz(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "app": s.cfg.AppName})
}

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}

// begin opens the per-request transaction. Returns nil after writing a 500
// when the pool cannot hand one out.
func (s *Server) begin(c *gin.Context) relationaldb.UnitOfWork {
	uow, err := s.db.Begin(c.Request.Context())
	if err != nil {
		s.logger.Error("begin transaction failed", "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return nil
	}
	return uow
}
