// Package obs holds the service's Prometheus instrumentation.
package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensIssued counts minted tokens by class ("access", "refresh").
	TokensIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "tokens_issued_total",
		Help:      "Number of tokens minted, by token class.",
	}, []string{"class"})

	// LoginAttempts counts logins by outcome
	// ("success", "invalid_credentials", "mfa_challenge").
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Number of login attempts, by outcome.",
	}, []string{"outcome"})

	// RefreshRotations counts successful refresh token rotations.
	RefreshRotations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "refresh_rotations_total",
		Help:      "Number of successful refresh token rotations.",
	})

	// RefreshReplaysBlocked counts refresh attempts rejected because the
	// token was already consumed or revoked.
	RefreshReplaysBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "refresh_replays_blocked_total",
		Help:      "Number of refresh attempts rejected as replayed or revoked.",
	})

	// Revocations counts revocations by scope ("single", "device", "all").
	Revocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "revocations_total",
		Help:      "Number of logout revocations, by scope.",
	}, []string{"scope"})

	// AuthnChecks counts authentication guard outcomes
	// ("ok", "missing", "invalid", "expired", "session_expired").
	AuthnChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fixhub",
		Subsystem: "auth",
		Name:      "authn_checks_total",
		Help:      "Number of access token verifications, by outcome.",
	}, []string{"outcome"})
)
