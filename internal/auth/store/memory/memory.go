// Package memory implements store.Store with in-process maps. It is the
// reference implementation of the store semantics: every operation that the
// sqlite driver performs as a single statement is performed here under a
// per-repository write lock.
package memory

import (
	"context"

	"github.com/fixhub/auth/internal/auth/store"
)

// Store is the in-memory driver. Safe for concurrent use.
type Store struct {
	users         *usersRepo
	refreshTokens *refreshTokensRepo
	mfaSessions   *mfaSessionsRepo
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:         newUsersRepo(),
		refreshTokens: newRefreshTokensRepo(),
		mfaSessions:   newMFASessionsRepo(),
	}
}

func (s *Store) Users() store.Users                 { return s.users }
func (s *Store) RefreshTokens() store.RefreshTokens { return s.refreshTokens }
func (s *Store) MFASessions() store.MFASessions     { return s.mfaSessions }

// ApplyMigrations is a no-op for the memory driver.
func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }
