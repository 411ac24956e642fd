package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
)

type refreshTokensRepo struct {
	mu      sync.RWMutex
	byToken map[string]domain.RefreshTokenRecord // keyed by tokenID (jti)
}

func newRefreshTokensRepo() *refreshTokensRepo {
	return &refreshTokensRepo{
		byToken: make(map[string]domain.RefreshTokenRecord),
	}
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshTokenRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byToken[t.TokenID]; exists {
		return store.ErrAlreadyExists
	}
	r.byToken[t.TokenID] = t
	return nil
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byToken[tokenID]
	if !ok {
		return domain.RefreshTokenRecord{}, store.ErrNotFound
	}
	return t, nil
}

// ConsumeRefreshToken is the rotation primitive: check-and-revoke under one
// write lock so concurrent consumers of the same token see exactly one win.
func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[tokenID]
	if !ok || t.Revoked {
		return domain.RefreshTokenRecord{}, store.ErrNotFound
	}

	prior := t
	t.Revoked = true
	t.UpdatedAt = time.Now().UTC()
	r.byToken[tokenID] = t
	return prior, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[tokenID]
	if !ok || t.Revoked {
		return nil // idempotent
	}
	t.Revoked = true
	t.UpdatedAt = time.Now().UTC()
	r.byToken[tokenID] = t
	return nil
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, t := range r.byToken {
		if t.UserID == userID && !t.Revoked {
			t.Revoked = true
			t.UpdatedAt = now
			r.byToken[id] = t
		}
	}
	return nil
}

func (r *refreshTokensRepo) RevokeUserDeviceRefreshTokens(ctx context.Context, userID, deviceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, t := range r.byToken {
		if t.UserID == userID && t.DeviceID == deviceID && !t.Revoked {
			t.Revoked = true
			t.UpdatedAt = now
			r.byToken[id] = t
		}
	}
	return nil
}

func (r *refreshTokensRepo) CountActive(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	var n int64
	for _, t := range r.byToken {
		if !t.Revoked && !t.Expired(now) {
			n++
		}
	}
	return n, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, t := range r.byToken {
		if t.Revoked || t.Expired(now) {
			delete(r.byToken, id)
		}
	}
	return nil
}
