package authsdk

import (
	"context"
	"net/http"
)

// EnrollMFA starts TOTP enrollment for the authenticated user. The returned
// secret and otpauth URL are shown once; the enrollment stays pending until
// activated with a valid code.
func (s *Session) EnrollMFA(ctx context.Context) (*MFAEnrollResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/mfa/totp/enroll", nil)
	if err != nil {
		return nil, err
	}

	var enroll MFAEnrollResponse
	if err := decodeJSON(resp, &enroll, http.StatusOK); err != nil {
		return nil, err
	}
	return &enroll, nil
}

// ActivateMFA confirms a pending enrollment with a current TOTP code,
// turning MFA on for the account.
func (s *Session) ActivateMFA(ctx context.Context, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/mfa/totp/activate",
		MFAActivateRequest{Code: code})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// DisableMFA turns MFA off. The account password is required as
// re-authentication.
func (s *Session) DisableMFA(ctx context.Context, password string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/mfa/totp",
		MFADisableRequest{Password: password})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
