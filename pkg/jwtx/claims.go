package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Short-lived access tokens bound the window a stolen
// token is useful for; refresh tokens trade that off for user convenience.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessClaims are the claims embedded in an access token. The token is
// self-contained: everything the authentication guard needs to cross-check
// against live principal state travels inside it.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Email of the principal at issuance time.
	Email string `json:"email"`

	// Role of the principal at issuance time.
	Role string `json:"role"`

	// TokenVersion is the principal's invalidation counter snapshot.
	// The guard rejects the token once the live counter moves past it.
	TokenVersion int64 `json:"token_version"`

	// DeviceID identifies the client device/session the token was
	// issued to. Carried through rotation so device-scoped logout works.
	DeviceID string `json:"device_id,omitempty"`
}

// RefreshClaims are the claims embedded in a refresh token: just the
// subject and the ledger key (jti). All other state lives in the ledger
// record and is re-read live at rotation time.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// TokenID returns the ledger key embedded in the refresh token.
func (c RefreshClaims) TokenID() string { return c.ID }
