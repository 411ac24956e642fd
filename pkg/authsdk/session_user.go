package authsdk

import (
	"context"
	"net/http"
)

// Me fetches the authenticated user's profile, including the effective
// permissions of their role.
func (s *Session) Me(ctx context.Context) (*UserProfile, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users/me", nil)
	if err != nil {
		return nil, err
	}

	var profile UserProfile
	if err := decodeJSON(resp, &profile, http.StatusOK); err != nil {
		return nil, err
	}
	return &profile, nil
}

// AdminDashboard fetches the admin dashboard snapshot.
// Requires the admin_dashboard:view permission.
func (s *Session) AdminDashboard(ctx context.Context) (*DashboardResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/dashboard", nil)
	if err != nil {
		return nil, err
	}

	var dashboard DashboardResponse
	if err := decodeJSON(resp, &dashboard, http.StatusOK); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// AdminSettings fetches the service's runtime settings.
// Requires the settings:manage permission.
func (s *Session) AdminSettings(ctx context.Context) (*SettingsResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/admin/settings", nil)
	if err != nil {
		return nil, err
	}

	var settings SettingsResponse
	if err := decodeJSON(resp, &settings, http.StatusOK); err != nil {
		return nil, err
	}
	return &settings, nil
}
