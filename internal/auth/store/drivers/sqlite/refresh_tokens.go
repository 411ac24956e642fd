package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/store"
)

type refreshTokensRepo struct {
	db *sql.DB
}

const refreshTokenColumns = `token_id, user_id, email, role, token_version, device_id, revoked, expires_at, created_at, updated_at`

func scanRefreshToken(row *sql.Row) (domain.RefreshTokenRecord, error) {
	var (
		t    domain.RefreshTokenRecord
		role string
	)
	err := row.Scan(
		&t.TokenID, &t.UserID, &t.Email, &role, &t.TokenVersion,
		&t.DeviceID, &t.Revoked, &t.ExpiresAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return domain.RefreshTokenRecord{}, mapNotFound(err)
	}
	t.Role = domain.Role(role)
	return t, nil
}

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshTokenRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (`+refreshTokenColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TokenID, t.UserID, t.Email, t.Role.String(), t.TokenVersion,
		t.DeviceID, t.Revoked, t.ExpiresAt, t.CreatedAt, t.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *refreshTokensRepo) GetRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_id = ?`, tokenID)
	return scanRefreshToken(row)
}

// ConsumeRefreshToken revokes a live record in a single guarded UPDATE;
// sqlite serializes writers, so exactly one of N concurrent consumers gets a
// row back.
func (r *refreshTokensRepo) ConsumeRefreshToken(ctx context.Context, tokenID string) (domain.RefreshTokenRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE refresh_tokens
		 SET revoked = 1, updated_at = ?
		 WHERE token_id = ? AND revoked = 0
		 RETURNING `+refreshTokenColumns,
		time.Now().UTC(), tokenID)

	t, err := scanRefreshToken(row)
	if err != nil {
		return domain.RefreshTokenRecord{}, err
	}
	// RETURNING reflects the post-update row; the WHERE clause guarantees
	// the prior state was live.
	t.Revoked = false
	return t, nil
}

func (r *refreshTokensRepo) RevokeRefreshToken(ctx context.Context, tokenID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE token_id = ? AND revoked = 0`,
		time.Now().UTC(), tokenID)
	return err // zero rows affected is fine: revocation is idempotent
}

func (r *refreshTokensRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = 1, updated_at = ? WHERE user_id = ? AND revoked = 0`,
		time.Now().UTC(), userID)
	return err
}

func (r *refreshTokensRepo) RevokeUserDeviceRefreshTokens(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens
		 SET revoked = 1, updated_at = ?
		 WHERE user_id = ? AND device_id = ? AND revoked = 0`,
		time.Now().UTC(), userID, deviceID)
	return err
}

func (r *refreshTokensRepo) CountActive(ctx context.Context) (int64, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM refresh_tokens WHERE revoked = 0 AND expires_at > ?`,
		time.Now().UTC())

	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE revoked = 1 OR expires_at <= ?`,
		time.Now().UTC())
	return err
}
