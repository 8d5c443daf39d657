package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshSkew refreshes access tokens slightly before they expire.
const refreshSkew = 10 * time.Second

// TokenExpiry extracts the exp claim of a JWT without verifying its
// signature; the client never holds the signing key. A zero time means the
// token carries no expiry.
func TokenExpiry(token string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}
	return claims.ExpiresAt.Time, nil
}

// tokenExpired reports whether token is unusable at now. Malformed tokens
// are left for the server to reject.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := TokenExpiry(token)
	if err != nil || exp.IsZero() {
		return false
	}
	return !now.Add(refreshSkew).Before(exp)
}
