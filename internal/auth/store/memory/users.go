package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
)

type usersRepo struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string // normalized email -> user ID
}

func newUsersRepo() *usersRepo {
	return &usersRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	email := normalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return store.ErrAlreadyExists
	}
	if _, taken := r.byID[u.ID]; taken {
		return store.ErrAlreadyExists
	}

	u.Email = email
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	return nil
}

func (r *usersRepo) IncrementTokenVersion(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return 0, store.ErrNotFound
	}
	u.TokenVersion++
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return u.TokenVersion, nil
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID string, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.MFASecret = &secret
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	u.MFAEnabled = &now
	u.UpdatedAt = now
	r.byID[userID] = u
	return nil
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.MFAEnabled = nil
	u.MFASecret = nil
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *usersRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.Role]int64)
	for _, u := range r.byID {
		counts[u.Role]++
	}
	return counts, nil
}
