package domain

import "time"

// Role is the coarse access tier assigned to an account. Permissions derive
// from the role through the rbac package.
type Role string

const (
	RoleResident Role = "RESIDENT"
	RoleProvider Role = "PROVIDER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string
	Email        string // unique, lowercased
	Name         string
	PasswordHash string // argon2 encoded
	Role         Role

	// TokenVersion is bumped to invalidate every outstanding access token
	// for the account. Starts at 1; access tokens carry the version they
	// were minted under and die when the live value moves past it.
	TokenVersion int64

	MFAEnabled *time.Time // Timestamp when MFA was activated (nullable)
	MFASecret  *string    // TOTP secret (nullable, base32 encoded)

	CreatedAt time.Time
	UpdatedAt time.Time
}
