package auth_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	env := setupAuthServer(t)
	ctx := context.Background()

	live, err := env.Client.GetLiveness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)
	assert.NotEmpty(t, live.Uptime)

	ready, err := env.Client.GetReadiness(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	assert.Equal(t, "ok", ready.Checks.Database)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupAuthServer(t)

	// Generate some traffic so the counters exist.
	registerUser(t, env, "alice@fixhub.test", "")

	resp, err := http.Get(env.Client.BaseURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "fixhub_auth_tokens_issued_total"),
		"token issuance counter should be exported")
}
