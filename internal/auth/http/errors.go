package http

import (
	"errors"
	"net/http"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/slogx"
)

// writeDomainError maps a service-layer sentinel onto the wire envelope.
// Anything unmapped is an internal failure: logged with detail, surfaced as
// an opaque 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var mfaErr *authsdk.MFARequiredError
	if errors.As(err, &mfaErr) {
		mfaErr.WriteError(w)
		return
	}

	switch {
	case errors.Is(err, domain.ErrTokenMissing):
		authsdk.ErrTokenMissing.WriteError(w)
	case errors.Is(err, domain.ErrTokenInvalid):
		authsdk.ErrTokenInvalid.WriteError(w)
	case errors.Is(err, domain.ErrTokenExpired):
		authsdk.ErrTokenExpired.WriteError(w)
	case errors.Is(err, domain.ErrSessionExpired):
		authsdk.ErrSessionExpired.WriteError(w)
	case errors.Is(err, domain.ErrRefreshTokenRevoked):
		authsdk.ErrRefreshTokenRevoked.WriteError(w)
	case errors.Is(err, domain.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, domain.ErrAlreadyExists):
		authsdk.ErrAlreadyExists.WriteError(w)
	case errors.Is(err, domain.ErrAuthRequired):
		authsdk.ErrAuthRequired.WriteError(w)
	case errors.Is(err, domain.ErrInsufficientPermission):
		authsdk.ErrInsufficientPermission.WriteError(w)
	case errors.Is(err, domain.ErrInvalidRole):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, domain.ErrMFAInvalidCode):
		authsdk.NewAPIError(http.StatusUnauthorized,
			authsdk.ErrorCodeInvalidCredentials, "the provided code is not valid").WriteError(w)
	case errors.Is(err, domain.ErrMFANotEnrolled):
		authsdk.NewAPIError(http.StatusBadRequest,
			authsdk.ErrorCodeInvalidRequest, "mfa is not enrolled for this account").WriteError(w)
	case errors.Is(err, domain.ErrMFAAlreadyEnabled):
		authsdk.NewAPIError(http.StatusConflict,
			authsdk.ErrorCodeAlreadyExists, "mfa is already enabled for this account").WriteError(w)
	case errors.Is(err, domain.ErrUserNotFound):
		authsdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
