package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/pkg/jwtx"
)

func TestGuard_Authenticate(t *testing.T) {
	svc, guard := newTestAuth(t)
	ctx := context.Background()

	user, pair := register(t, svc, "alice@example.com", domain.RoleProvider)

	t.Run("valid token", func(t *testing.T) {
		p, err := guard.Authenticate(ctx, "Bearer "+pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.ID)
		assert.Equal(t, "alice@example.com", p.Email)
		assert.Equal(t, domain.RoleProvider, p.Role)
		assert.Equal(t, int64(1), p.TokenVersion)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, "")
		assert.ErrorIs(t, err, domain.ErrTokenMissing)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, "Basic dXNlcjpwYXNz")
		assert.ErrorIs(t, err, domain.ErrTokenMissing)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, "Bearer not.a.jwt")
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("refresh token presented as access token", func(t *testing.T) {
		_, err := guard.Authenticate(ctx, "Bearer "+pair.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})
}

func TestGuard_ExpiredToken(t *testing.T) {
	svc, guard := newTestAuth(t)
	ctx := context.Background()

	user, _ := register(t, svc, "old@example.com", domain.RoleResident)

	// Sign a token in the past using the same secrets.
	past := time.Now().Add(-2 * time.Hour)
	backdated, err := jwtx.NewCodec("access-secret-test", "refresh-secret-test",
		jwtx.WithIssuer("fixhub-auth-test"),
		jwtx.WithClock(func() time.Time { return past }))
	require.NoError(t, err)

	stale, _, err := backdated.IssueAccessToken(
		user.ID, user.Email, user.Role.String(), user.TokenVersion, "")
	require.NoError(t, err)

	_, err = guard.Authenticate(ctx, "Bearer "+stale)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestGuard_SessionExpiredOnVersionMismatch(t *testing.T) {
	svc, guard := newTestAuth(t)
	ctx := context.Background()

	user, pair := register(t, svc, "bob@example.com", domain.RoleResident)

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	_, err := guard.Authenticate(ctx, "Bearer "+pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired,
		"a stale version is a session-expired, not a token-invalid")
}

func TestGuard_RequireRole(t *testing.T) {
	_, guard := newTestAuth(t)

	admin := &domain.Principal{ID: "u1", Role: domain.RoleAdmin}
	resident := &domain.Principal{ID: "u2", Role: domain.RoleResident}

	assert.NoError(t, guard.RequireRole(admin, domain.RoleAdmin))
	assert.NoError(t, guard.RequireRole(resident, domain.RoleResident, domain.RoleProvider))

	assert.ErrorIs(t, guard.RequireRole(resident, domain.RoleAdmin), domain.ErrInsufficientPermission)
	assert.ErrorIs(t, guard.RequireRole(nil, domain.RoleAdmin), domain.ErrAuthRequired)
}

func TestGuard_RequirePermission(t *testing.T) {
	_, guard := newTestAuth(t)

	resident := &domain.Principal{ID: "u1", Role: domain.RoleResident}
	provider := &domain.Principal{ID: "u2", Role: domain.RoleProvider}

	// RESIDENT holds job:read but not job:write; PROVIDER holds both.
	assert.NoError(t, guard.RequirePermission(resident, rbac.PermJobRead))
	assert.ErrorIs(t, guard.RequirePermission(resident, rbac.PermJobWrite), domain.ErrInsufficientPermission)
	assert.NoError(t, guard.RequirePermission(provider, rbac.PermJobRead, rbac.PermJobWrite))

	assert.ErrorIs(t, guard.RequirePermission(nil, rbac.PermJobRead), domain.ErrAuthRequired)
}
