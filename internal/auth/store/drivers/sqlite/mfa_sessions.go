package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
)

type mfaSessionsRepo struct {
	db *sql.DB
}

func (r *mfaSessionsRepo) CreateMFASession(ctx context.Context, s domain.MFASession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mfa_sessions (id, user_id, device_id, attempts, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.DeviceID, s.Attempts, s.CreatedAt, s.ExpiresAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *mfaSessionsRepo) GetMFASession(ctx context.Context, id string) (domain.MFASession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, device_id, attempts, created_at, expires_at
		 FROM mfa_sessions WHERE id = ?`, id)

	var s domain.MFASession
	err := row.Scan(&s.ID, &s.UserID, &s.DeviceID, &s.Attempts, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.MFASession{}, mapNotFound(err)
	}
	return s, nil
}

func (r *mfaSessionsRepo) IncrementMFAAttempts(ctx context.Context, id string) (int, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE mfa_sessions SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id)

	var attempts int
	if err := row.Scan(&attempts); err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *mfaSessionsRepo) DeleteMFASession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mfa_sessions WHERE id = ?`, id)
	return err
}

func (r *mfaSessionsRepo) DeleteExpiredMFASessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM mfa_sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
