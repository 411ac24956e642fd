package http

import (
	"context"
	"net/http"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/internal/auth/service"
	"github.com/fixhub/auth/pkg/httpx"
	"github.com/fixhub/auth/pkg/slogx"
)

// AuthnMiddleware verifies the bearer token through the guard and injects
// the resolved principal into the request context.
func AuthnMiddleware(guard *service.Guard) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := guard.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				writeDomainError(w, r, err)
				return
			}

			ctx = contextWithPrincipal(ctx, principal)
			ctx = slogx.WithUserID(ctx, principal.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the principal holding one of the roles.
// Must sit inside AuthnMiddleware.
func RequireRole(guard *service.Guard, roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFromContext(r.Context())
			if err := guard.RequireRole(p, roles...); err != nil {
				writeDomainError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates a route on the principal's role granting every
// listed permission. Must sit inside AuthnMiddleware.
func RequirePermission(guard *service.Guard, perms ...rbac.Permission) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFromContext(r.Context())
			if err := guard.RequirePermission(p, perms...); err != nil {
				writeDomainError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	ctx = httpx.WithUserID(ctx, p.ID)
	return context.WithValue(ctx, httpx.CtxKeyPrincipal, p)
}

// principalFromContext returns the authenticated principal, or nil when the
// request never passed the authentication middleware.
func principalFromContext(ctx context.Context) *domain.Principal {
	if p, ok := ctx.Value(httpx.CtxKeyPrincipal).(domain.Principal); ok {
		return &p
	}
	return nil
}
