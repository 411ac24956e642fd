package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/fixhub/auth/internal/auth/domain"
	"github.com/fixhub/auth/internal/auth/obs"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/pkg/cryptox"
	"github.com/fixhub/auth/pkg/slogx"
)

// MFAService manages TOTP enrollment for an account. Enrollment is two-step:
// EnrollTOTP stores a pending secret, ActivateTOTP proves the authenticator
// works before MFA starts gating logins.
type MFAService struct {
	Store  store.Store
	Issuer string // Issuer name for TOTP (e.g., "FixHub")
}

// EnrollTOTP generates a TOTP secret for the user and returns the
// provisioning material. MFA is NOT active until ActivateTOTP succeeds.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (domain.MFAEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.MFAEnrollment{}, err
	}
	if user.MFAEnabled != nil {
		return domain.MFAEnrollment{}, domain.ErrMFAAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	// Store the secret pending activation. Re-enrolling before activation
	// simply replaces the pending secret.
	if err := s.Store.Users().UpdateMFASecret(ctx, userID, key.Secret()); err != nil {
		return domain.MFAEnrollment{}, fmt.Errorf("failed to store MFA secret: %w", err)
	}

	return domain.MFAEnrollment{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		Issuer:     s.Issuer,
		Account:    user.Email,
	}, nil
}

// ActivateTOTP confirms a pending enrollment with a current code and turns
// MFA on for the account.
func (s *MFAService) ActivateTOTP(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFAEnabled != nil {
		return domain.ErrMFAAlreadyEnabled
	}
	if user.MFASecret == nil || *user.MFASecret == "" {
		return domain.ErrMFANotEnrolled
	}

	if !totp.Validate(code, *user.MFASecret) {
		return domain.ErrMFAInvalidCode
	}

	if err := s.Store.Users().EnableMFA(ctx, userID); err != nil {
		return fmt.Errorf("failed to enable MFA: %w", err)
	}

	slogx.FromContext(ctx).Info("mfa activated", slog.String("user_id", userID))
	return nil
}

// DisableTOTP turns MFA off. The account password is required as
// re-authentication so a hijacked session cannot silently drop the factor.
func (s *MFAService) DisableTOTP(ctx context.Context, userID, password string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.MFAEnabled == nil {
		return domain.ErrMFANotEnrolled
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := s.Store.Users().DisableMFA(ctx, userID); err != nil {
		return fmt.Errorf("failed to disable MFA: %w", err)
	}

	slogx.FromContext(ctx).Info("mfa disabled", slog.String("user_id", userID))
	return nil
}

// createMFAChallenge records a pending login that has passed the password
// check and returns the opaque challenge token.
func (s *AuthService) createMFAChallenge(ctx context.Context, userID, deviceID string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", fmt.Errorf("failed to generate challenge token: %w", err)
	}

	now := time.Now().UTC()
	session := domain.MFASession{
		ID:        token,
		UserID:    userID,
		DeviceID:  deviceID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.MFAChallengeSessionTTL),
	}
	if err := s.Store.MFASessions().CreateMFASession(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// CompleteMFALogin finishes an MFA-gated login. The challenge is single
// purpose: it is deleted on success, on expiry, and when the attempt cap is
// hit, forcing the client back to the password step.
func (s *AuthService) CompleteMFALogin(ctx context.Context, mfaToken, code string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	session, err := s.Store.MFASessions().GetMFASession(ctx, mfaToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if session.Expired(now) {
		_ = s.Store.MFASessions().DeleteMFASession(ctx, mfaToken)
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.MFAEnabled == nil || user.MFASecret == nil {
		// MFA was disabled between challenge and completion.
		_ = s.Store.MFASessions().DeleteMFASession(ctx, mfaToken)
		return nil, domain.ErrInvalidCredentials
	}

	if !totp.Validate(code, *user.MFASecret) {
		attempts, err := s.Store.MFASessions().IncrementMFAAttempts(ctx, mfaToken)
		if err != nil {
			return nil, err
		}
		if attempts >= domain.MFAMaxAttempts {
			_ = s.Store.MFASessions().DeleteMFASession(ctx, mfaToken)
			l.Warn("mfa challenge exhausted", slog.String("user_id", user.ID))
		}
		return nil, domain.ErrMFAInvalidCode
	}

	if err := s.Store.MFASessions().DeleteMFASession(ctx, mfaToken); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(ctx, user, session.DeviceID)
	if err != nil {
		return nil, err
	}

	obs.LoginAttempts.WithLabelValues("success").Inc()
	l.Info("mfa login succeeded", slog.String("user_id", user.ID))
	return pair, nil
}
