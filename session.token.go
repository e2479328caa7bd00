package main

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what the client can read from a bearer token without
// the signing secret. None of it is trusted for authorization, the
// backend remains the authority.
type TokenClaims struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
}

// InspectToken decodes the claims of a JWT access token without
// verifying its signature. Opaque tokens give ok=false.
func InspectToken(token string) (TokenClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenClaims{}, false
	}

	var tc TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		tc.Role = Role(role)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Time
	}
	return tc, true
}

// Expired reports whether the token carries an expiration already past.
func (tc TokenClaims) Expired(now time.Time) bool {
	return !tc.ExpiresAt.IsZero() && !now.Before(tc.ExpiresAt)
}
