package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fixhub/auth/internal/auth/domain"
	httpapi "github.com/fixhub/auth/internal/auth/http"
	"github.com/fixhub/auth/internal/auth/rbac"
	"github.com/fixhub/auth/internal/auth/service"
	"github.com/fixhub/auth/internal/auth/store"
	"github.com/fixhub/auth/internal/auth/store/memory"
	"github.com/fixhub/auth/pkg/authsdk"
	"github.com/fixhub/auth/pkg/cryptox"
	"github.com/fixhub/auth/pkg/idx"
	"github.com/fixhub/auth/pkg/jwtx"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * Each test boots the full HTTP stack in-process against the in-memory
 * store and talks to it exclusively through the public SDK.
 */

const (
	testIssuer    = "fixhub-auth-e2e"
	testMFAIssuer = "FixHub"

	adminEmail    = "admin@fixhub.test"
	adminPassword = "Admin123!sufficient"
	userPassword  = "correct horse battery"
)

// testEnv bundles a running in-process service with the handles the tests
// need to poke at it from both sides of the API.
type testEnv struct {
	Client *authsdk.SDKClient
	Store  store.Store
	Codec  *jwtx.Codec
}

// setupAuthServer boots the full router on an httptest server and returns
// an SDK client pointed at it. The server is torn down with the test.
func setupAuthServer(t *testing.T) *testEnv {
	t.Helper()
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	codec, err := jwtx.NewCodec("e2e-access-secret", "e2e-refresh-secret",
		jwtx.WithIssuer(testIssuer))
	require.NoError(t, err)

	st := memory.New()
	registry := rbac.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := httpapi.NewRouter(codec, testIssuer, testMFAIssuer, "test", st, registry, logger)
	router.AuthService = &service.AuthService{Store: st, Codec: codec}
	router.MFAService = &service.MFAService{Store: st, Issuer: testMFAIssuer}
	router.Guard = &service.Guard{Store: st, Codec: codec, Registry: registry}
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{
		Client: authsdk.NewSDKClient(server.URL),
		Store:  st,
		Codec:  codec,
	}
}

// seedAdmin plants an admin account directly in the store. Registration only
// hands out the self-service roles, mirroring production where admins are
// seeded at deploy time.
func seedAdmin(t *testing.T, env *testEnv) {
	t.Helper()

	hash, err := cryptox.HashPassword(adminPassword)
	require.NoError(t, err)

	now := time.Now().UTC()
	err = env.Store.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Email:        adminEmail,
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		TokenVersion: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
}

// registerUser registers a fresh account through the API and returns the
// live session.
func registerUser(t *testing.T, env *testEnv, email, role string) *authsdk.Session {
	t.Helper()

	session, err := env.Client.Register(context.Background(), authsdk.RegisterRequest{
		Email:    email,
		Password: userPassword,
		Name:     "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	require.NotNil(t, session)
	return session
}

// assertSessionTokens verifies a session carries a usable token pair.
func assertSessionTokens(t *testing.T, session *authsdk.Session) {
	t.Helper()
	require.NotEmpty(t, session.AccessToken(), "access token should not be empty")
	require.NotEmpty(t, session.RefreshToken(), "refresh token should not be empty")
}

// assertAPIError verifies err is an APIError with the given status and code.
func assertAPIError(t *testing.T, err error, statusCode int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr, "expected APIError, got: %v", err)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
