package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/service"
)

const actorContextKey = "fightpurse.actor"

// authenticate resolves the Bearer token into an Actor and stores it on the
// request context. Every /bouts route runs behind it.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "Authorization header is required.")
			return
		}
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "Authorization header must use Bearer token format.")
			return
		}

		actor, err := service.ParseAccessToken(strings.TrimSpace(token), s.cfg.JWTSecret)
		if err != nil {
			detail := "Invalid or expired access token."
			if errors.Is(err, service.ErrInvalidTokenClaims) {
				detail = "Invalid access token claims."
			}
			respondError(c, http.StatusUnauthorized, detail)
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// requireRole gates a route on an exact role match.
func (s *Server) requireRole(role domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		if actor == nil || actor.Role != role {
			respondError(c, http.StatusForbidden, "Insufficient role for this operation.")
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) *service.Actor {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return nil
	}
	actor, ok := value.(*service.Actor)
	if !ok {
		return nil
	}
	return actor
}
