package authsdk

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse is the service's JSON error envelope. This is used internally
// for parsing HTTP error responses. Client code should use the APIError type
// from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "token_expired")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenPairResponse is the body returned whenever the service mints a session:
// register, login, MFA completion, and refresh.
type TokenPairResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT refresh token used to obtain new token pairs.
	// Single use: each refresh rotates it.
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ============================================================================
// Auth Request/Response Types
// ============================================================================

// RegisterRequest creates a new account. Role defaults to RESIDENT when empty.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest authenticates with email and password. DeviceID is an optional
// client-chosen label letting later logout target this device alone.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id,omitempty"`
}

// MFALoginRequest completes an MFA-gated login: the challenge token from the
// 409 response plus the current TOTP code.
type MFALoginRequest struct {
	MFAToken string `json:"mfa_token"`
	Code     string `json:"code"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest revokes a single refresh token.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutDeviceRequest revokes every refresh token bound to one device label.
type LogoutDeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// ============================================================================
// User Types
// ============================================================================

// UserProfile is the authenticated principal's own view of their account.
type UserProfile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	MFAEnabled  bool     `json:"mfa_enabled"`
	Permissions []string `json:"permissions"`
	CreatedAt   string   `json:"created_at"`
}

// ============================================================================
// Admin Types
// ============================================================================

// DashboardResponse is the admin dashboard snapshot.
type DashboardResponse struct {
	TotalUsers     int64            `json:"total_users"`
	UsersByRole    map[string]int64 `json:"users_by_role"`
	ActiveSessions int64            `json:"active_sessions"`
}

// SettingsResponse reports the service's non-secret runtime settings.
type SettingsResponse struct {
	Issuer          string `json:"issuer"`
	AccessTokenTTL  string `json:"access_token_ttl"`
	RefreshTokenTTL string `json:"refresh_token_ttl"`
	MFAIssuer       string `json:"mfa_issuer"`
}

// ============================================================================
// MFA Types
// ============================================================================

// MFAEnrollResponse carries the provisioning material for a fresh TOTP
// enrollment. The secret is shown exactly once.
type MFAEnrollResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// MFAActivateRequest confirms enrollment with a code from the authenticator.
type MFAActivateRequest struct {
	Code string `json:"code"`
}

// MFADisableRequest turns MFA off; requires the password as re-authentication.
type MFADisableRequest struct {
	Password string `json:"password"`
}

// ============================================================================
// System Types
// ============================================================================

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
