package http

import (
	"net/http"

	"github.com/fixhub/auth/internal/auth/service"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/httpx"
)

// MFAHandler serves the TOTP enrollment lifecycle. Every endpoint here runs
// behind the authentication middleware; the challenge step of a login lives
// on AuthHandler instead because it happens before a session exists.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleEnroll serves POST /v1/mfa/totp/enroll.
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	if principal == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), principal.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MFAEnrollResponse{
		Secret:     enrollment.Secret,
		OTPAuthURL: enrollment.OTPAuthURL,
	})
}

// HandleActivate serves POST /v1/mfa/totp/activate.
func (h *MFAHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	if principal == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	var req authsdk.MFAActivateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Code == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.MFAService.ActivateTOTP(r.Context(), principal.ID, req.Code); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDisable serves DELETE /v1/mfa/totp. The caller re-authenticates with
// their password so a hijacked access token alone cannot strip the factor.
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	principal := principalFromContext(r.Context())
	if principal == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	var req authsdk.MFADisableRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.MFAService.DisableTOTP(r.Context(), principal.ID, req.Password); err != nil {
		writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
