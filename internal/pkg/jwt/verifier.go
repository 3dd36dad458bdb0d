// internal/pkg/jwt/verifier.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"time"

	xerrors "scout-service/internal/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

type Verifier struct {
	pub    *rsa.PublicKey
	parser *jwt.Parser
}

// NewVerifier accepts only RS256 tokens with an expiry. Issuer and audience
// are enforced when non-empty.
func NewVerifier(pub *rsa.PublicKey, issuer, audience string, leeway time.Duration) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return &Verifier{
		pub:    pub,
		parser: jwt.NewParser(opts...),
	}
}

// Verify validates a token and returns its claims. Every failure wraps
// ErrUnauthorized.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.pub == nil {
		return nil, fmt.Errorf("jwt verifier has nil public key")
	}

	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", xerrors.ErrUnauthorized)
	}

	if claims.AgencyID == "" {
		return nil, fmt.Errorf("%w: token has no agency", xerrors.ErrUnauthorized)
	}

	return claims, nil
}
