package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/internal/auth/domain"
)

func TestRefresh_RotatesAndBlocksReplay(t *testing.T) {
	svc, guard := newTestAuth(t)
	ctx := context.Background()

	_, pair := register(t, svc, "alice@example.com", domain.RoleResident)

	// Rotation yields a fresh, working pair.
	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	_, err = guard.Authenticate(ctx, "Bearer "+rotated.AccessToken)
	require.NoError(t, err)

	// Replaying the consumed token fails.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked)

	// The rotated token is unaffected by the replay attempt.
	again, err := svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, again.AccessToken)
}

func TestRefresh_ConcurrentPresenters_ExactlyOneWins(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, pair := register(t, svc, "race@example.com", domain.RoleResident)

	const n = 16
	var (
		wg       sync.WaitGroup
		wins     atomic.Int64
		replayed atomic.Int64
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, pair.RefreshToken)
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked):
				replayed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
	assert.Equal(t, int64(n-1), replayed.Load())
}

func TestRefresh_KeepsDeviceBinding(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	user, _ := register(t, svc, "heidi@example.com", domain.RoleResident)
	pair, err := svc.Login(ctx, "heidi@example.com", testPassword, "phone")
	require.NoError(t, err)

	// Rotate: the replacement record must inherit the device label.
	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	require.NoError(t, svc.LogoutDevice(ctx, user.ID, "phone"))

	_, err = svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrRefreshTokenRevoked,
		"device logout must catch tokens created by rotation, not just the original login")
}

func TestRefresh_RejectsWrongTokenClass(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, pair := register(t, svc, "ivan@example.com", domain.RoleResident)

	// An access token is signed with a different secret; it must never
	// pass as a refresh token.
	_, err := svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestRefresh_MintsCurrentTokenVersion(t *testing.T) {
	svc, guard := newTestAuth(t)
	ctx := context.Background()

	user, _ := register(t, svc, "judy@example.com", domain.RoleResident)

	// Bump the version, then log in again and rotate.
	require.NoError(t, svc.LogoutAll(ctx, user.ID))
	pair, err := svc.Login(ctx, "judy@example.com", testPassword, "")
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	p, err := guard.Authenticate(ctx, "Bearer "+rotated.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TokenVersion, "rotation re-reads live principal state")
}
