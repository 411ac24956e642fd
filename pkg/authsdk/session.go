package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Session represents an authenticated session with automatic token refresh.
// Refresh tokens are single use, so every refresh swaps out both tokens.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
}

// newSession creates a new authenticated session from a token pair response.
func newSession(client *SDKClient, tokenResp *TokenPairResponse) *Session {
	expiresAt := time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	// Subtract 30 seconds buffer to refresh before actual expiry
	expiresAt = expiresAt.Add(-30 * time.Second)

	return &Session{
		client:       client,
		accessToken:  tokenResp.AccessToken,
		refreshToken: tokenResp.RefreshToken,
		expiresAt:    expiresAt,
	}
}

// AccessToken returns the session's current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the session's current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	// Token expired, need to refresh
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock (another goroutine may have refreshed)
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if s.refreshToken == "" {
		return "", fmt.Errorf("access token expired and no refresh token available")
	}

	tokenResp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = tokenResp.AccessToken
	s.refreshToken = tokenResp.RefreshToken
	s.expiresAt = time.Now().
		Add(time.Duration(tokenResp.ExpiresIn) * time.Second).
		Add(-30 * time.Second)

	return s.accessToken, nil
}

// ForceRefresh rotates the token pair immediately regardless of expiry.
func (s *Session) ForceRefresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenResp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return err
	}

	s.accessToken = tokenResp.AccessToken
	s.refreshToken = tokenResp.RefreshToken
	s.expiresAt = time.Now().
		Add(time.Duration(tokenResp.ExpiresIn) * time.Second).
		Add(-30 * time.Second)
	return nil
}

// Logout revokes this session's refresh token. The access token stays
// cryptographically valid until it expires, but no new pairs can be minted.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := s.refreshToken
	s.mu.RUnlock()

	if refreshToken == "" {
		return fmt.Errorf("no refresh token to revoke")
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout",
		LogoutRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// LogoutAll ends every session for the account by bumping its token version.
// All outstanding access tokens die on their next guarded request.
func (s *Session) LogoutAll(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout-all", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// LogoutDevice revokes every refresh token bound to the given device label.
func (s *Session) LogoutDevice(ctx context.Context, deviceID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/logout-device",
		LogoutDeviceRequest{DeviceID: deviceID})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
