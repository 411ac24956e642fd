/*
Package authsdk provides a client SDK for interacting with the FixHub
authentication service.

# Overview

The package is organized around two main types:

  - SDKClient: unauthenticated operations and authentication flows
  - Session: authenticated operations with automatic token refresh

Create an SDKClient to interact with public endpoints and sign in:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Register or sign in to create a session
	session, err := client.Login(ctx, authsdk.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})

Accounts with MFA enabled return a challenge instead of tokens:

	session, err := client.Login(ctx, req)
	if mfaErr, ok := err.(*authsdk.MFARequiredError); ok {
		session, err = client.CompleteMFALogin(ctx, authsdk.MFALoginRequest{
			MFAToken: mfaErr.MFAToken,
			Code:     totpCode,
		})
	}

# Automatic Token Refresh

Session methods call getValidToken() internally, which checks the access
token's expiry (with a 30-second buffer) and, when expired, exchanges the
refresh token for a new pair. Refresh tokens are single use: every exchange
rotates both tokens, and presenting an already-used refresh token fails with
refresh_token_revoked.

# Errors

All service errors surface as *APIError with the wire code and HTTP status
preserved, except the MFA challenge which surfaces as *MFARequiredError.
*/
package authsdk
