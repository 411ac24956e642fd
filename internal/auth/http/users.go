package http

import (
	"net/http"
	"time"

	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/httpx"
)

// UserHandler serves the authenticated self-service endpoints.
type UserHandler struct {
	Store    store.Store
	Registry *rbac.Registry
}

// HandleMe serves GET /v1/users/me: the caller's profile with the effective
// permissions of their role resolved through the registry.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := principalFromContext(r.Context())
	if p == nil {
		authsdk.ErrAuthRequired.WriteError(w)
		return
	}

	user, err := h.Store.Users().GetUserByID(r.Context(), p.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserProfile{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role.String(),
		MFAEnabled:  user.MFAEnabled != nil,
		Permissions: h.Registry.List(user.Role),
		CreatedAt:   user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
