package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/pkg/authsdk"
)

func TestLogout_RevokesRefreshToken(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	session := registerUser(t, env, "alice@fixhub.test", "")
	refreshToken := session.RefreshToken()

	require.NoError(t, session.Logout(ctx))

	// The surrendered refresh token can no longer be exchanged.
	_, err := env.Client.Refresh(ctx, refreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeRefreshTokenRevoked)
}

func TestLogoutAll_EndsEverySession(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	first := registerUser(t, env, "bob@fixhub.test", "")
	second, err := env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "bob@fixhub.test",
		Password: userPassword,
	})
	require.NoError(t, err)

	require.NoError(t, first.LogoutAll(ctx))

	// The other session's access token is cut off mid-flight: its embedded
	// version no longer matches the account, and its refresh token is revoked,
	// so the SDK's automatic recovery fails too.
	_, err = second.Me(ctx)
	require.Error(t, err)
	_, err = env.Client.Refresh(ctx, second.RefreshToken())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeRefreshTokenRevoked)

	// A fresh login works and yields a live session again.
	relogin, err := env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "bob@fixhub.test",
		Password: userPassword,
	})
	require.NoError(t, err)
	_, err = relogin.Me(ctx)
	require.NoError(t, err)
}

func TestLogoutDevice_OnlyTargetsLabel(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	registerUser(t, env, "carol@fixhub.test", "")

	phone, err := env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "carol@fixhub.test",
		Password: userPassword,
		DeviceID: "phone",
	})
	require.NoError(t, err)

	laptop, err := env.Client.Login(ctx, authsdk.LoginRequest{
		Email:    "carol@fixhub.test",
		Password: userPassword,
		DeviceID: "laptop",
	})
	require.NoError(t, err)

	require.NoError(t, laptop.LogoutDevice(ctx, "phone"))

	// The phone's refresh token is dead; the laptop's still rotates.
	_, err = env.Client.Refresh(ctx, phone.RefreshToken())
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeRefreshTokenRevoked)
	_, err = env.Client.Refresh(ctx, laptop.RefreshToken())
	require.NoError(t, err)
}
