package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
)

type mfaSessionsRepo struct {
	mu   sync.RWMutex
	byID map[string]domain.MFASession
}

func newMFASessionsRepo() *mfaSessionsRepo {
	return &mfaSessionsRepo{
		byID: make(map[string]domain.MFASession),
	}
}

func (r *mfaSessionsRepo) CreateMFASession(ctx context.Context, s domain.MFASession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; exists {
		return store.ErrAlreadyExists
	}
	r.byID[s.ID] = s
	return nil
}

func (r *mfaSessionsRepo) GetMFASession(ctx context.Context, id string) (domain.MFASession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.MFASession{}, store.ErrNotFound
	}
	return s, nil
}

func (r *mfaSessionsRepo) IncrementMFAAttempts(ctx context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	s.Attempts++
	r.byID[id] = s
	return s.Attempts, nil
}

func (r *mfaSessionsRepo) DeleteMFASession(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, id)
	return nil
}

func (r *mfaSessionsRepo) DeleteExpiredMFASessions(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for id, s := range r.byID {
		if s.Expired(now) {
			delete(r.byID, id)
		}
	}
	return nil
}
