package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fixhub/auth/pkg/httpx"
)

// ============================================================================
// Wire Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest         = "invalid_request"
	ErrorCodeTokenMissing           = "token_missing"
	ErrorCodeTokenInvalid           = "token_invalid"
	ErrorCodeTokenExpired           = "token_expired"
	ErrorCodeSessionExpired         = "session_expired"
	ErrorCodeRefreshTokenRevoked    = "refresh_token_revoked"
	ErrorCodeInvalidCredentials     = "invalid_credentials"
	ErrorCodeAlreadyExists          = "already_exists"
	ErrorCodeAuthRequired           = "auth_required"
	ErrorCodeInsufficientPermission = "insufficient_permission"
	ErrorCodeMFARequired            = "mfa_required"
	ErrorCodeNotFound               = "not_found"
	ErrorCodeServerError            = "server_error"
)

// ============================================================================
// APIError - Standard wire error type
// ============================================================================

// APIError represents the service's JSON error envelope. It implements the
// error interface and is used by both the server (to write HTTP responses)
// and the SDK client (to represent errors).
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "token_expired")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrInvalidRequest is returned when the request is missing a required
	// parameter, includes an invalid value, or is otherwise malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrTokenMissing is returned when no bearer token was presented on a
	// protected endpoint.
	ErrTokenMissing = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenMissing,
		Description: "no access token was provided",
	}

	// ErrTokenInvalid is returned when the presented token fails signature or
	// shape validation.
	ErrTokenInvalid = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenInvalid,
		Description: "the access token is malformed or has an invalid signature",
	}

	// ErrTokenExpired is returned when a cryptographically valid token is past
	// its expiry.
	ErrTokenExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeTokenExpired,
		Description: "the access token has expired",
	}

	// ErrSessionExpired is returned when the token's embedded version no longer
	// matches the account's current version, meaning the session was force-ended.
	ErrSessionExpired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeSessionExpired,
		Description: "the session has been invalidated, please sign in again",
	}

	// ErrRefreshTokenRevoked is returned when a refresh token was already
	// consumed or revoked.
	ErrRefreshTokenRevoked = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeRefreshTokenRevoked,
		Description: "the refresh token has been revoked or already used",
	}

	// ErrInvalidCredentials is returned on failed login. The description stays
	// deliberately vague so callers cannot probe which accounts exist.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	// ErrAlreadyExists is returned when registering an email that is taken.
	ErrAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyExists,
		Description: "an account with this email already exists",
	}

	// ErrAuthRequired is returned by guards when no principal is attached to
	// the request.
	ErrAuthRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAuthRequired,
		Description: "authentication is required",
	}

	// ErrInsufficientPermission is returned when the authenticated principal
	// lacks the role or permission an endpoint demands.
	ErrInsufficientPermission = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInsufficientPermission,
		Description: "you do not have permission to perform this action",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	// ErrServerError is returned on unexpected internal failures.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrMethodNotAllowed is returned when the HTTP method is not allowed.
	ErrMethodNotAllowed = &APIError{
		StatusCode:  http.StatusMethodNotAllowed,
		Code:        ErrorCodeInvalidRequest,
		Description: "method not allowed",
	}
)

// NewAPIError creates an APIError with the given status code, error code, and
// description, for custom messages that keep the standard envelope.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// MFA Challenge Response
// ============================================================================

// MFARequiredError is returned when a second factor is required to complete
// a login. It carries the challenge token the client must echo back along
// with the TOTP code. Returned with HTTP 409 Conflict: the credentials were
// valid but the account's MFA state demands another step.
type MFARequiredError struct {
	// MFAToken is the challenge token to present with the TOTP code
	MFAToken string `json:"mfa_token"`

	// Methods lists the available MFA methods (e.g., ["totp"])
	Methods []string `json:"mfa_methods"`
}

// Error implements the error interface.
func (e *MFARequiredError) Error() string {
	return fmt.Sprintf("MFA required: available methods=%v", e.Methods)
}

// WriteError writes the MFA challenge as a 409 Conflict in the standard envelope.
func (e *MFARequiredError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":             ErrorCodeMFARequired,
		"error_description": "multi-factor authentication is required to complete this request",
		"mfa_token":         e.MFAToken,
		"mfa_methods":       e.Methods,
	})
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse attempts to parse an HTTP error response into a typed
// error. Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Check for MFA challenge (409 Conflict)
	if resp.StatusCode == http.StatusConflict {
		var mfaResp struct {
			Error      string   `json:"error"`
			MFAToken   string   `json:"mfa_token"`
			MFAMethods []string `json:"mfa_methods"`
		}
		if err := json.Unmarshal(body, &mfaResp); err == nil {
			if mfaResp.Error == ErrorCodeMFARequired && mfaResp.MFAToken != "" {
				return &MFARequiredError{
					MFAToken: mfaResp.MFAToken,
					Methods:  mfaResp.MFAMethods,
				}
			}
		}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fallback: generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
