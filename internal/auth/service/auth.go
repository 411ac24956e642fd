package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/obs"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/cryptox"
	"github.com/fixhub/auth/pkg/idx"
	"github.com/fixhub/auth/pkg/jwtx"
	"github.com/fixhub/auth/pkg/slogx"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthService owns the session lifecycle: registration, login, logout in its
// three scopes, and the refresh rotation protocol (refresh.go).
type AuthService struct {
	Store store.Store
	Codec *jwtx.Codec
}

// Register creates an account and, mirroring login, immediately issues a
// token pair. Only the public-safe roles are accepted; admins are seeded or
// promoted out of band.
func (s *AuthService) Register(
	ctx context.Context,
	name, email, password string,
	role domain.Role,
) (domain.User, *domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	// 1. Validate inputs.
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return domain.User{}, nil, domain.ErrInvalidCredentials
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return domain.User{}, nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleResident
	}
	if role != domain.RoleResident && role != domain.RoleProvider {
		return domain.User{}, nil, domain.ErrInvalidRole
	}

	// 2. Hash the password. Deliberately slow; never under a store lock.
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. Persist the principal. Token version starts at 1.
	now := time.Now().UTC()
	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, nil, domain.ErrAlreadyExists
		}
		return domain.User{}, nil, err
	}

	// 4. Issue the first session.
	pair, err := s.issuePair(ctx, user, "")
	if err != nil {
		return domain.User{}, nil, err
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, pair, nil
}

// Login checks credentials and mints a token pair. Accounts with MFA active
// get a challenge instead: the returned error is *authsdk.MFARequiredError
// and no tokens are issued until the code checks out.
func (s *AuthService) Login(
	ctx context.Context,
	email, password, deviceID string,
) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so absent accounts are not
			// distinguishable by response latency.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash())
			obs.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		l.Info("login failed", slog.String("user_id", user.ID))
		obs.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	// Password holds, but an MFA-enabled account needs the second factor
	// before any tokens exist.
	if user.MFAEnabled != nil {
		challenge, err := s.createMFAChallenge(ctx, user.ID, deviceID)
		if err != nil {
			return nil, err
		}
		obs.LoginAttempts.WithLabelValues("mfa_challenge").Inc()
		return nil, &authsdk.MFARequiredError{
			MFAToken: challenge,
			Methods:  []string{"totp"},
		}
	}

	pair, err := s.issuePair(ctx, user, deviceID)
	if err != nil {
		return nil, err
	}

	obs.LoginAttempts.WithLabelValues("success").Inc()
	l.Info("login succeeded", slog.String("user_id", user.ID))
	return pair, nil
}

// Logout revokes a single refresh token. Idempotent: revoking an unknown,
// expired, or already-revoked token succeeds silently so a client retrying a
// logout never sees an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.Codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		// Nothing to revoke; a garbled or expired token is already dead.
		return nil
	}

	if err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, claims.TokenID()); err != nil {
		return err
	}
	obs.Revocations.WithLabelValues("single").Inc()
	return nil
}

// LogoutAll force-ends every session for the account: bumps the token
// version so all outstanding access tokens fail their next guarded request,
// and revokes every live refresh token so no new pairs can be minted.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	l := slogx.FromContext(ctx)

	version, err := s.Store.Users().IncrementTokenVersion(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	if err := s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		return err
	}

	obs.Revocations.WithLabelValues("all").Inc()
	l.Info("all sessions ended",
		slog.String("user_id", userID),
		slog.Int64("token_version", version),
	)
	return nil
}

// LogoutDevice revokes every live refresh token the user holds under one
// device label. Access tokens minted for that device stay valid until expiry;
// only a full LogoutAll cuts those short.
func (s *AuthService) LogoutDevice(ctx context.Context, userID, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		// A blank label would sweep up every unlabelled session; callers
		// wanting that use LogoutAll.
		return nil
	}

	if err := s.Store.RefreshTokens().RevokeUserDeviceRefreshTokens(ctx, userID, deviceID); err != nil {
		return err
	}
	obs.Revocations.WithLabelValues("device").Inc()
	return nil
}

// issuePair mints an access+refresh pair carrying the user's current state
// and records the refresh token in the ledger.
func (s *AuthService) issuePair(ctx context.Context, user domain.User, deviceID string) (*domain.TokenPair, error) {
	accessToken, _, err := s.Codec.IssueAccessToken(
		user.ID, user.Email, user.Role.String(), user.TokenVersion, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, tokenID, refreshExp, err := s.Codec.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	now := time.Now().UTC()
	record := domain.RefreshTokenRecord{
		TokenID:      tokenID,
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		DeviceID:     deviceID,
		ExpiresAt:    refreshExp,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to record refresh token: %w", err)
	}

	obs.TokensIssued.WithLabelValues("access").Inc()
	obs.TokensIssued.WithLabelValues("refresh").Inc()

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.Codec.AccessTTL(),
	}, nil
}
