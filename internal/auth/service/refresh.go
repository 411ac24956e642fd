package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/obs"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/jwtx"
	"github.com/fixhub/auth/pkg/slogx"
)

// Refresh rotates a refresh token: the presented token is consumed (one-time
// use) and a fresh pair is minted from the principal's live state. Replaying
// a rotated token fails with ErrRefreshTokenRevoked, which doubles as the
// theft signal.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	// 1. Cryptographic validity first: signature, shape, expiry.
	claims, err := s.Codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	// 2. Consume the ledger record atomically. A token that was already
	// rotated, revoked, or never recorded dies here; exactly one of any
	// number of concurrent presenters of the same token gets past this line.
	record, err := s.Store.RefreshTokens().ConsumeRefreshToken(ctx, claims.TokenID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			obs.RefreshReplaysBlocked.Inc()
			l.Warn("refresh token replay or revoked token presented",
				slog.String("token_id", claims.TokenID()),
			)
			return nil, domain.ErrRefreshTokenRevoked
		}
		return nil, err
	}

	// 3. The ledger may outlive the token's own expiry window when
	// housekeeping lags; the signature check above already rejects expired
	// JWTs, but guard against clock drift between record and claims.
	if record.Expired(time.Now().UTC()) {
		return nil, domain.ErrTokenExpired
	}

	// 4. Re-read the live principal. Role or version may have moved since
	// the record was written; new tokens always carry current state, never
	// the snapshot.
	user, err := s.Store.Users().GetUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	// 5. Mint the replacement pair, keeping the original device binding.
	pair, err := s.issuePair(ctx, user, record.DeviceID)
	if err != nil {
		return nil, err
	}

	obs.RefreshRotations.Inc()
	return pair, nil
}
