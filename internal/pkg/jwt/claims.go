// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access token claims issued by the auth backend.
// AgencyID scopes every request.
type Claims struct {
	AgencyID string `json:"agency_id"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}
