package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the FixHub authentication service.
// It provides access to unauthenticated operations and can create
// authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account and returns an authenticated session; the
// service issues a token pair on successful registration.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	tokenResp, err := c.postTokenPair(ctx, "/v1/auth/register", req)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// Login authenticates with email and password. When the account has MFA
// enabled the returned error is a *MFARequiredError carrying the challenge
// token; complete the login with CompleteMFALogin.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	tokenResp, err := c.postTokenPair(ctx, "/v1/auth/login", req)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// CompleteMFALogin finishes an MFA-gated login using the challenge token and
// a current TOTP code.
func (c *SDKClient) CompleteMFALogin(ctx context.Context, req MFALoginRequest) (*Session, error) {
	tokenResp, err := c.postTokenPair(ctx, "/v1/auth/mfa", req)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// Refresh exchanges a refresh token for a new token pair without building a
// Session. Most callers want Session's automatic refresh instead.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	return c.postTokenPair(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken})
}

// NewSessionFromTokens creates an authenticated session from existing tokens,
// e.g. tokens persisted by a previous run. The session still auto-refreshes
// when the access token expires.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string, expiresIn int) *Session {
	expiresAt := time.Now().Add(time.Duration(expiresIn) * time.Second)
	expiresAt = expiresAt.Add(-30 * time.Second) // 30 second buffer

	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
		expiresAt:    expiresAt,
	}
}

func (c *SDKClient) postTokenPair(ctx context.Context, path string, body any) (*TokenPairResponse, error) {
	resp, err := c.postJSON(ctx, path, body)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenPairResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}
