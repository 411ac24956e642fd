package domain

import "time"

// MFAMaxAttempts caps failed code submissions per challenge session.
const MFAMaxAttempts = 5

// MFAChallengeSessionTTL bounds how long a login may sit between password
// verification and code submission.
const MFAChallengeSessionTTL = 5 * time.Minute

// MFASession represents a pending MFA challenge: the password checked out but
// the account requires a TOTP code before tokens are minted.
type MFASession struct {
	ID        string // opaque 256-bit token handed to the client as mfa_token
	UserID    string
	DeviceID  string // carried through to the eventual token pair
	Attempts  int    // failed code submissions so far
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge has lapsed at the given instant.
func (s MFASession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// MFAEnrollment carries the provisioning material for a fresh TOTP
// enrollment, surfaced to the user exactly once.
type MFAEnrollment struct {
	Secret     string // base32 encoded secret for TOTP
	OTPAuthURL string // otpauth:// URL for QR code generation
	Issuer     string
	Account    string // user email
}
