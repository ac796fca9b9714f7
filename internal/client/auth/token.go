package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/fragments-ui/internal/common"
)

// idClaims are the Cognito ID token claims the CLI displays.
type idClaims struct {
	jwt.RegisteredClaims
	Username string `json:"cognito:username"`
	Email    string `json:"email"`
}

// parseIDToken reads the claims of an ID token without checking its
// signature. The token came straight from Cognito over TLS and the
// fragments service verifies it on every request. A non-empty issuer must
// match the token's "iss" claim.
func parseIDToken(token, issuer string) (*idClaims, error) {
	claims := &idClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if issuer != "" && claims.Issuer != issuer {
		return nil, fmt.Errorf("%w: issued by %q, want %q", common.ErrInvalidToken, claims.Issuer, issuer)
	}
	if claims.Username == "" {
		claims.Username = claims.Subject
	}
	return claims, nil
}
