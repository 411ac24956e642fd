package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/pkg/authsdk"
)

func TestMFA_FullLifecycle(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	session := registerUser(t, env, "alice@fixhub.test", "")

	// Enroll and activate with a code derived from the returned secret.
	enrollment, err := session.EnrollMFA(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.OTPAuthURL, "otpauth://totp/")

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.ActivateMFA(ctx, code))

	profile, err := session.Me(ctx)
	require.NoError(t, err)
	assert.True(t, profile.MFAEnabled)

	// Password alone no longer completes a login; the challenge error
	// carries the token for the second step.
	_, err = env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "alice@fixhub.test",
		Password: userPassword,
	})
	var challenge *authsdk.MFARequiredError
	require.ErrorAs(t, err, &challenge)
	require.NotEmpty(t, challenge.MFAToken)
	assert.Equal(t, []string{"totp"}, challenge.Methods)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	mfaSession, err := env.Client.CompleteMFALogin(ctx, authsdk.MFALoginRequest{
		MFAToken: challenge.MFAToken,
		Code:     code,
	})
	require.NoError(t, err)
	assertSessionTokens(t, mfaSession)

	// The challenge is single use.
	_, err = env.Client.CompleteMFALogin(ctx, authsdk.MFALoginRequest{
		MFAToken: challenge.MFAToken,
		Code:     code,
	})
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}

func TestMFA_WrongCodeAndDisable(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	session := registerUser(t, env, "bob@fixhub.test", "")

	enrollment, err := session.EnrollMFA(ctx)
	require.NoError(t, err)

	// Activation demands a valid code.
	err = session.ActivateMFA(ctx, "000000")
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.ActivateMFA(ctx, code))

	// Disabling requires the password, not just a live session.
	err = session.DisableMFA(ctx, "wrong password")
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
	require.NoError(t, session.DisableMFA(ctx, userPassword))

	// With MFA off, a plain login completes again.
	login, err := env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "bob@fixhub.test",
		Password: userPassword,
	})
	require.NoError(t, err)
	assertSessionTokens(t, login)
}

func TestMFA_ChallengeAttemptsCapped(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	session := registerUser(t, env, "carol@fixhub.test", "")

	enrollment, err := session.EnrollMFA(ctx)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, session.ActivateMFA(ctx, code))

	_, err = env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "carol@fixhub.test",
		Password: userPassword,
	})
	var challenge *authsdk.MFARequiredError
	require.ErrorAs(t, err, &challenge)

	// Burn through the attempt budget with bad codes.
	for range 5 {
		_, err = env.Client.CompleteMFALogin(ctx, authsdk.MFALoginRequest{
			MFAToken: challenge.MFAToken,
			Code:     "000000",
		})
		require.Error(t, err)
	}

	// Even the right code is refused once the challenge is spent.
	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	_, err = env.Client.CompleteMFALogin(ctx, authsdk.MFALoginRequest{
		MFAToken: challenge.MFAToken,
		Code:     code,
	})
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidCredentials)
}
