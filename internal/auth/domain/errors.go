package domain

import "errors"

// Sentinel errors shared across the service and transport layers. Handlers
// map these onto the wire error envelope; services return them unwrapped so
// callers can branch with errors.Is.
var (
	ErrTokenMissing        = errors.New("token missing")
	ErrTokenInvalid        = errors.New("token invalid")
	ErrTokenExpired        = errors.New("token expired")
	ErrSessionExpired      = errors.New("session expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAlreadyExists       = errors.New("already exists")
	ErrAuthRequired           = errors.New("authentication required")
	ErrInsufficientPermission = errors.New("insufficient permission")
	ErrMFARequired         = errors.New("mfa required")
	ErrMFAInvalidCode      = errors.New("invalid mfa code")
	ErrMFANotEnrolled      = errors.New("mfa not enrolled")
	ErrMFAAlreadyEnabled   = errors.New("mfa already enabled")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
)
