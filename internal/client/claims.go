package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the read-only projection of a credential's payload segment.
type Claims struct {
	Role      Role
	Name      string
	Subject   string
	ExpiresAt time.Time
}

// credentialClaims is the internal claims type used for JWT parsing.
type credentialClaims struct {
	jwt.RegisteredClaims
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// DecodeCredential reads the claims out of a credential without verifying
// its signature. Verification is the backend's job; the client only needs
// the payload. A malformed credential yields ok=false, never an error.
func DecodeCredential(token string) (Claims, bool) {
	var parsed credentialClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &parsed); err != nil {
		return Claims{}, false
	}

	claims := Claims{
		Role:    parsed.Role,
		Name:    parsed.Name,
		Subject: parsed.Subject,
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time
	}
	return claims, true
}

// Expired reports whether the credential's expiry instant has passed.
// Credentials without an expiry claim never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(now)
}
