package http

import (
	"net/http"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/service"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/httpx"
)

// AuthHandler serves the session lifecycle endpoints under /v1/auth.
type AuthHandler struct {
	AuthService *service.AuthService
}

func writeTokenPair(w http.ResponseWriter, pair *domain.TokenPair) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}

// HandleRegister serves POST /v1/auth/register. A successful registration
// behaves like a first login: the response carries a token pair.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	_, pair, err := h.AuthService.Register(r.Context(),
		req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeTokenPair(w, pair)
}

// HandleLogin serves POST /v1/auth/login. MFA-enabled accounts get a 409
// challenge instead of tokens.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password, req.DeviceID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeTokenPair(w, pair)
}

// HandleMFALogin serves POST /v1/auth/mfa: completes an MFA-gated login with
// the challenge token and a TOTP code.
func (h *AuthHandler) HandleMFALogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.MFALoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.MFAToken == "" || req.Code == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.CompleteMFALogin(r.Context(), req.MFAToken, req.Code)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeTokenPair(w, pair)
}

// HandleRefresh serves POST /v1/auth/refresh: rotates the presented refresh
// token. A replayed token answers 401 refresh_token_revoked.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeTokenPair(w, pair)
}

// HandleLogout serves POST /v1/auth/logout. Idempotent and public: the
// refresh token itself is the credential being revoked.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LogoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.Logout(r.Context(), req.RefreshToken); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutAll serves POST /v1/auth/logout-all (authenticated): force-ends
// every session for the caller's account.
func (h *AuthHandler) HandleLogoutAll(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	if p == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	if err := h.AuthService.LogoutAll(r.Context(), p.ID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogoutDevice serves POST /v1/auth/logout-device (authenticated):
// revokes the caller's refresh tokens for one device label.
func (h *AuthHandler) HandleLogoutDevice(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	if p == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	var req authsdk.LogoutDeviceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.DeviceID == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.AuthService.LogoutDevice(r.Context(), p.ID, req.DeviceID); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
