package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/idx"
)

func newUser(email string, role domain.Role) domain.User {
	now := time.Now().UTC()
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$argon2id$not-a-real-hash",
		Role:         role,
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsers_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("Alice@Example.com", domain.RoleResident)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	// Lookup is case-insensitive on email.
	got, err := s.Users().GetUserByEmail(ctx, "alice@example.COM")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)

	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleResident, got.Role)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_DuplicateEmailRejected(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Users().CreateUser(ctx, newUser("bob@example.com", domain.RoleResident)))

	err := s.Users().CreateUser(ctx, newUser("BOB@example.com", domain.RoleProvider))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsers_IncrementTokenVersion_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := newUser("carol@example.com", domain.RoleAdmin)
	require.NoError(t, s.Users().CreateUser(ctx, u))

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Users().IncrementTokenVersion(ctx, u.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1+n), got.TokenVersion, "N concurrent bumps must advance by exactly N")
}

func newRecord(userID string) domain.RefreshTokenRecord {
	now := time.Now().UTC()
	return domain.RefreshTokenRecord{
		TokenID:      idx.New().String(),
		UserID:       userID,
		Email:        "alice@example.com",
		Role:         domain.RoleResident,
		TokenVersion: 1,
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRefreshTokens_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := newRecord("user-1")
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	prior, err := s.RefreshTokens().ConsumeRefreshToken(ctx, rec.TokenID)
	require.NoError(t, err)
	assert.False(t, prior.Revoked, "Consume returns the pre-revocation state")

	// Second consume must fail: the record is now a tombstone.
	_, err = s.RefreshTokens().ConsumeRefreshToken(ctx, rec.TokenID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// But the tombstone is still visible to Get.
	got, err := s.RefreshTokens().GetRefreshToken(ctx, rec.TokenID)
	require.NoError(t, err)
	assert.True(t, got.Revoked)
}

func TestRefreshTokens_ConsumeConcurrent_ExactlyOneWins(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := newRecord("user-2")
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	const n = 32
	var wg sync.WaitGroup
	var wins int64
	var mu sync.Mutex

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.RefreshTokens().ConsumeRefreshToken(ctx, rec.TokenID); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins)
}

func TestRefreshTokens_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := newRecord("user-3")
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))

	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, rec.TokenID))
	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, rec.TokenID))
	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, "never-seen"))
}

func TestRefreshTokens_BulkRevocation(t *testing.T) {
	ctx := context.Background()
	s := New()

	a1 := newRecord("user-a")
	a1.DeviceID = "phone"
	a2 := newRecord("user-a")
	a2.DeviceID = "laptop"
	b1 := newRecord("user-b")

	for _, rec := range []domain.RefreshTokenRecord{a1, a2, b1} {
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))
	}

	// Device-scoped revocation hits only the matching label.
	require.NoError(t, s.RefreshTokens().RevokeUserDeviceRefreshTokens(ctx, "user-a", "phone"))
	got, _ := s.RefreshTokens().GetRefreshToken(ctx, a1.TokenID)
	assert.True(t, got.Revoked)
	got, _ = s.RefreshTokens().GetRefreshToken(ctx, a2.TokenID)
	assert.False(t, got.Revoked)

	// User-scoped revocation hits everything left for that user.
	require.NoError(t, s.RefreshTokens().RevokeAllUserRefreshTokens(ctx, "user-a"))
	got, _ = s.RefreshTokens().GetRefreshToken(ctx, a2.TokenID)
	assert.True(t, got.Revoked)
	got, _ = s.RefreshTokens().GetRefreshToken(ctx, b1.TokenID)
	assert.False(t, got.Revoked, "other users' tokens are untouched")
}

func TestRefreshTokens_Housekeeping(t *testing.T) {
	ctx := context.Background()
	s := New()

	live := newRecord("user-c")
	expired := newRecord("user-c")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	revoked := newRecord("user-c")

	for _, rec := range []domain.RefreshTokenRecord{live, expired, revoked} {
		require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, rec))
	}
	require.NoError(t, s.RefreshTokens().RevokeRefreshToken(ctx, revoked.TokenID))

	require.NoError(t, s.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err := s.RefreshTokens().GetRefreshToken(ctx, expired.TokenID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshToken(ctx, revoked.TokenID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.RefreshTokens().GetRefreshToken(ctx, live.TokenID)
	assert.NoError(t, err)

	n, err := s.RefreshTokens().CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMFASessions_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	sess := domain.MFASession{
		ID:        "challenge-1",
		UserID:    "user-d",
		DeviceID:  "phone",
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(domain.MFAChallengeSessionTTL),
	}
	require.NoError(t, s.MFASessions().CreateMFASession(ctx, sess))

	got, err := s.MFASessions().GetMFASession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-d", got.UserID)

	n, err := s.MFASessions().IncrementMFAAttempts(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.MFASessions().DeleteMFASession(ctx, sess.ID))
	_, err = s.MFASessions().GetMFASession(ctx, sess.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMFASessions_ExpiredSweep(t *testing.T) {
	ctx := context.Background()
	s := New()

	stale := domain.MFASession{
		ID:        "stale",
		UserID:    "user-e",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	fresh := domain.MFASession{
		ID:        "fresh",
		UserID:    "user-e",
		ExpiresAt: time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, s.MFASessions().CreateMFASession(ctx, stale))
	require.NoError(t, s.MFASessions().CreateMFASession(ctx, fresh))

	require.NoError(t, s.MFASessions().DeleteExpiredMFASessions(ctx))

	_, err := s.MFASessions().GetMFASession(ctx, "stale")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.MFASessions().GetMFASession(ctx, "fresh")
	assert.NoError(t, err)
}
