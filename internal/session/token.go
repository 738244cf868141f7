package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the subset of backend JWT claims the client inspects.
// The signature is NOT verified here: the backend is the authority, the
// client only uses the claims to skip doomed round-trips.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var errNotJWT = errors.New("token is not a JWT")

func parseClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, errNotJWT
	}
	return claims, nil
}

// tokenExpired reports whether a JWT bearer token is past its exp claim.
// Opaque (non-JWT) tokens are never considered expired client-side.
func tokenExpired(token string) (bool, error) {
	claims, err := parseClaims(token)
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt == nil {
		return false, nil
	}
	return time.Now().After(claims.ExpiresAt.Time), nil
}

// roleFromToken pulls the role claim out of a JWT bearer token, for session
// records written before the role was stored explicitly.
func roleFromToken(token string) Role {
	claims, err := parseClaims(token)
	if err != nil {
		return RoleAnonymous
	}
	return normalizeRole(claims.Role)
}
