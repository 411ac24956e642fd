package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/internal/auth/service"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/httpx"
	"github.com/fixhub/auth/pkg/jwtx"
	"github.com/fixhub/auth/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        *jwtx.Codec
	issuer       string
	mfaIssuer    string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	registry *rbac.Registry

	AuthService *service.AuthService
	MFAService  *service.MFAService
	Guard       *service.Guard
}

func NewRouter(
	codec *jwtx.Codec,
	issuer, mfaIssuer, buildVersion string,
	st store.Store,
	registry *rbac.Registry,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		issuer:       issuer,
		mfaIssuer:    mfaIssuer,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		registry:     registry,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerAdmin()
	r.registerMFA()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential-bearing endpoints need no session; the request body itself
	// carries the proof.
	r.Mux.Handle("POST /v1/auth/register", http.HandlerFunc(h.HandleRegister))
	r.Mux.Handle("POST /v1/auth/login", http.HandlerFunc(h.HandleLogin))
	r.Mux.Handle("POST /v1/auth/mfa", http.HandlerFunc(h.HandleMFALogin))
	r.Mux.Handle("POST /v1/auth/refresh", http.HandlerFunc(h.HandleRefresh))
	r.Mux.Handle("POST /v1/auth/logout", http.HandlerFunc(h.HandleLogout))

	// Bulk revocation targets the calling principal, so it needs one.
	r.Mux.Handle("POST /v1/auth/logout-all",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutAll),
			AuthnMiddleware(r.Guard),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout-device",
		httpx.Chain(http.HandlerFunc(h.HandleLogoutDevice),
			AuthnMiddleware(r.Guard),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UserHandler{
		Store:    r.store,
		Registry: r.registry,
	}

	r.Mux.Handle("GET /v1/users/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			AuthnMiddleware(r.Guard),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		Store:           r.store,
		Issuer:          r.issuer,
		AccessTokenTTL:  r.codec.AccessTTL(),
		RefreshTokenTTL: r.codec.RefreshTTL(),
		MFAIssuer:       r.mfaIssuer,
	}

	// The dashboard is gated by role, settings by permission. Both gates sit
	// on top of the same authentication middleware.
	r.Mux.Handle("GET /v1/admin/dashboard",
		httpx.Chain(http.HandlerFunc(h.HandleDashboard),
			AuthnMiddleware(r.Guard),
			RequireRole(r.Guard, domain.RoleAdmin),
		),
	)
	r.Mux.Handle("GET /v1/admin/settings",
		httpx.Chain(http.HandlerFunc(h.HandleSettings),
			AuthnMiddleware(r.Guard),
			RequirePermission(r.Guard, rbac.PermSettingsManage),
		),
	)
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("POST /v1/mfa/totp/enroll",
		httpx.Chain(http.HandlerFunc(h.HandleEnroll),
			AuthnMiddleware(r.Guard),
		),
	)
	r.Mux.Handle("POST /v1/mfa/totp/activate",
		httpx.Chain(http.HandlerFunc(h.HandleActivate),
			AuthnMiddleware(r.Guard),
		),
	)
	r.Mux.Handle("DELETE /v1/mfa/totp",
		httpx.Chain(http.HandlerFunc(h.HandleDisable),
			AuthnMiddleware(r.Guard),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
