package domain

import "time"

// TokenPair represents what the session endpoints return: the short-lived
// access token and the single-use refresh token, both JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // typically "Bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until expiry
}

// RefreshTokenRecord models the stored refresh token ledger entry. The record
// keeps a snapshot of the principal at mint time so rotation can re-mint
// without a user lookup, and survives as a revoked tombstone after use so
// replays are detectable.
type RefreshTokenRecord struct {
	TokenID      string // jti of the refresh JWT
	UserID       string
	Email        string
	Role         Role
	TokenVersion int64
	DeviceID     string // optional client-chosen device label
	Revoked      bool
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired reports whether the record is past its expiry at the given instant.
func (r RefreshTokenRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
