package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/obs"
	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/jwtx"
)

// Guard is the request-time verifier: it turns an Authorization header into
// a Principal, or a typed failure. Verification stops at the first mismatch
// between the token's claims and the principal's live state. Guards never
// mutate any store.
type Guard struct {
	Store    store.Store
	Codec    *jwtx.Codec
	Registry *rbac.Registry
}

// Authenticate verifies a bearer token end to end: header shape, signature,
// expiry, principal existence, and token version currency.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (domain.Principal, error) {
	// 1. Extract the bearer token.
	authorization = strings.TrimSpace(authorization)
	if authorization == "" || !strings.HasPrefix(authorization, "Bearer ") {
		obs.AuthnChecks.WithLabelValues("missing").Inc()
		return domain.Principal{}, domain.ErrTokenMissing
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer"))

	// 2. Cryptographic verification.
	claims, err := g.Codec.VerifyAccessToken(raw)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			obs.AuthnChecks.WithLabelValues("expired").Inc()
			return domain.Principal{}, domain.ErrTokenExpired
		}
		obs.AuthnChecks.WithLabelValues("invalid").Inc()
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	// 3. The principal must still exist.
	user, err := g.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			obs.AuthnChecks.WithLabelValues("invalid").Inc()
			return domain.Principal{}, domain.ErrTokenInvalid
		}
		return domain.Principal{}, err
	}

	// 4. Version currency: a bumped counter kills every older token at
	// this line, which is what makes LogoutAll instant.
	if claims.TokenVersion != user.TokenVersion {
		obs.AuthnChecks.WithLabelValues("session_expired").Inc()
		return domain.Principal{}, domain.ErrSessionExpired
	}

	obs.AuthnChecks.WithLabelValues("ok").Inc()

	// The principal context carries live state, not token claims: a role
	// change applies on the very next request.
	return domain.Principal{
		ID:           user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		DeviceID:     claims.DeviceID,
	}, nil
}

// RequireRole passes when the principal holds one of the allowed roles.
// Coarse and registry-free; used for admin-only surfaces.
func (g *Guard) RequireRole(p *domain.Principal, roles ...domain.Role) error {
	if p == nil {
		return domain.ErrAuthRequired
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return domain.ErrInsufficientPermission
}

// RequirePermission passes when the principal's role grants every required
// permission tag, resolved through the registry cache.
func (g *Guard) RequirePermission(p *domain.Principal, perms ...rbac.Permission) error {
	if p == nil {
		return domain.ErrAuthRequired
	}
	if !g.Registry.Has(p.Role, perms...) {
		return domain.ErrInsufficientPermission
	}
	return nil
}
