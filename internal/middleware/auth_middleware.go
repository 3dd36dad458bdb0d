// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"scout-service/internal/pkg/jwt"
	"scout-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxAgencyID = "agency_id"
	ctxUserID   = "user_id"
	ctxJTI      = "jti"
)

type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Auth validates the bearer token and scopes the request to its agency.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		c.Set(ctxAgencyID, claims.AgencyID)
		c.Set(ctxUserID, claims.UserID())
		c.Set(ctxJTI, claims.ID)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	// Try header first
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	// Browsers cannot set headers on WebSocket upgrades
	return c.Query("access_token")
}
