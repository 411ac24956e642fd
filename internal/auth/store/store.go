package store

import (
	"context"
	"errors"

	"github.com/fixhub/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (memory, sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	MFASessions() MFASessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is still reachable.
	Ping(ctx context.Context) error
}

// Users is the principal repository.
type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks a user up by normalized (lowercased) email.
	// Used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// IncrementTokenVersion atomically bumps the user's token version and
	// returns the new value. N concurrent calls advance the counter by
	// exactly N.
	IncrementTokenVersion(ctx context.Context, userID string) (int64, error)

	// UpdateMFASecret sets the (pending) TOTP secret for a user.
	UpdateMFASecret(ctx context.Context, userID string, secret string) error

	// EnableMFA marks MFA as active for a user (sets mfa_enabled timestamp).
	EnableMFA(ctx context.Context, userID string) error

	// DisableMFA disables MFA for a user (clears mfa_enabled and mfa_secret).
	DisableMFA(ctx context.Context, userID string) error

	// CountByRole returns the number of users holding each role.
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

// RefreshTokens is the refresh token ledger. Records survive revocation as
// tombstones so a replayed rotated token is distinguishable from a never-seen
// one until housekeeping deletes it.
type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshTokenRecord) error

	// GetRefreshToken returns the record by its tokenID (jti).
	GetRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error)

	// ConsumeRefreshToken atomically revokes a live record and returns its
	// prior state. Returns ErrNotFound when the record is absent OR already
	// revoked, so exactly one of N concurrent consumers succeeds.
	ConsumeRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error)

	// RevokeRefreshToken flips revoked, sets updated_at. Idempotent: revoking
	// an already-revoked or absent token is not an error.
	RevokeRefreshToken(ctx context.Context, tokenID string) error

	// RevokeAllUserRefreshTokens bulk-revokes every live token for a user.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// RevokeUserDeviceRefreshTokens revokes every live token for a user
	// bound to the given device label.
	RevokeUserDeviceRefreshTokens(ctx context.Context, userID, deviceID string) error

	// CountActive returns the number of live, unexpired records.
	CountActive(ctx context.Context) (int64, error)

	// DeleteExpiredRefreshTokens is housekeeping: drops expired and revoked rows.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

// MFASessions holds pending MFA login challenges.
type MFASessions interface {
	// CreateMFASession stores a new pending challenge.
	CreateMFASession(ctx context.Context, s domain.MFASession) error

	// GetMFASession returns the challenge by its token.
	GetMFASession(ctx context.Context, id string) (domain.MFASession, error)

	// IncrementMFAAttempts bumps the failed-attempt counter and returns the
	// new value.
	IncrementMFAAttempts(ctx context.Context, id string) (int, error)

	// DeleteMFASession removes a challenge (on success, exhaustion, or expiry).
	DeleteMFASession(ctx context.Context, id string) error

	// DeleteExpiredMFASessions is housekeeping.
	DeleteExpiredMFASessions(ctx context.Context) error
}
