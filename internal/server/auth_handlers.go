package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

func (s *Server) authService(uow relationaldb.UnitOfWork) *service.AuthService {
	return service.NewAuthService(uow, s.cfg.JWTSecret, s.cfg.JWTExpiry)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}

	roleValue := req.Role
	if roleValue == "" {
		roleValue = string(domain.RoleFighter)
	}
	role, err := domain.ParseUserRole(roleValue)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Role is invalid.")
		return
	}

	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	user, err := s.authService(uow).Register(c.Request.Context(), service.RegisterParams{
		Email:       req.Email,
		Password:    req.Password,
		Role:        role,
		DisplayName: req.DisplayName,
		XRPLAddress: req.XRPLAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailAlreadyExists):
			respondError(c, http.StatusConflict, "A user with this email already exists.")
		case errors.Is(err, domain.ErrPasswordTooShort):
			respondError(c, http.StatusUnprocessableEntity, "Password is too short.")
		default:
			respondError(c, http.StatusConflict, "Could not create account.")
		}
		return
	}
	if err := uow.Commit(); err != nil {
		respondError(c, http.StatusConflict, "Could not create account.")
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
	})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusUnprocessableEntity, "Request payload failed validation.")
		return
	}

	uow := s.begin(c)
	if uow == nil {
		return
	}
	defer uow.Rollback()

	svc := s.authService(uow)
	user, err := svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	token, err := svc.IssueAccessToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error.")
		return
	}

	c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
