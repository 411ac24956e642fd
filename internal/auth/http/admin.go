package http

import (
	"net/http"
	"time"

	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/httpx"
)

// AdminHandler serves the admin surfaces. The dashboard sits behind the role
// gate and settings behind the permission gate, exercising both gate kinds.
type AdminHandler struct {
	Store           store.Store
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MFAIssuer       string
}

// HandleDashboard serves GET /v1/admin/dashboard.
func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.Store.Users().CountByRole(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	sessions, err := h.Store.RefreshTokens().CountActive(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	byRole := make(map[string]int64, len(counts))
	var total int64
	for role, n := range counts {
		byRole[role.String()] = n
		total += n
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.DashboardResponse{
		TotalUsers:     total,
		UsersByRole:    byRole,
		ActiveSessions: sessions,
	})
}

// HandleSettings serves GET /v1/admin/settings.
func (h *AdminHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.SettingsResponse{
		Issuer:          h.Issuer,
		AccessTokenTTL:  h.AccessTokenTTL.String(),
		RefreshTokenTTL: h.RefreshTokenTTL.String(),
		MFAIssuer:       h.MFAIssuer,
	})
}
