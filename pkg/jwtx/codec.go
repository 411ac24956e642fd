package jwtx

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformed = errors.New("jwtx: malformed token")
	ErrExpired   = errors.New("jwtx: token expired")
)

// Codec mints and verifies the two token classes. Access and refresh
// tokens are signed HS256 with distinct secrets so a leaked key only
// compromises one class.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// Option configures Codec behavior.
type Option func(*Codec)

// WithIssuer sets the iss claim stamped on and required of every token.
func WithIssuer(issuer string) Option {
	return func(c *Codec) { c.issuer = strings.TrimSpace(issuer) }
}

// WithAccessTTL overrides the access token lifetime.
func WithAccessTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.accessTTL = ttl
		}
	}
}

// WithRefreshTTL overrides the refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) Option {
	return func(c *Codec) {
		if ttl > 0 {
			c.refreshTTL = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(c *Codec) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewCodec builds a Codec from the two signing secrets. The secrets must be
// non-empty and distinct; sharing one secret across token classes would let
// a refresh token be replayed as an access token.
func NewCodec(accessSecret, refreshSecret string, opts ...Option) (*Codec, error) {
	accessSecret = strings.TrimSpace(accessSecret)
	refreshSecret = strings.TrimSpace(refreshSecret)
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("jwtx: both access and refresh secrets are required")
	}
	if subtle.ConstantTimeCompare([]byte(accessSecret), []byte(refreshSecret)) == 1 {
		return nil, errors.New("jwtx: access and refresh secrets must differ")
	}

	c := &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     DefaultAccessTokenTTL,
		refreshTTL:    DefaultRefreshTokenTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccessToken signs a short-lived access token for the given principal
// snapshot. Pure: no state beyond the clock and the signing secret.
func (c *Codec) IssueAccessToken(
	subject, email, role string,
	tokenVersion int64,
	deviceID string,
) (string, time.Time, error) {
	now := c.now().UTC()
	exp := now.Add(c.accessTTL)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		Email:        email,
		Role:         role,
		TokenVersion: tokenVersion,
		DeviceID:     deviceID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(c.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefreshToken signs a long-lived refresh token for the subject and
// returns the freshly generated ledger key (jti) alongside it. The caller
// is responsible for recording the key in the ledger.
func (c *Codec) IssueRefreshToken(subject string) (token, tokenID string, exp time.Time, err error) {
	now := c.now().UTC()
	exp = now.Add(c.refreshTTL)
	tokenID = uuid.NewString()

	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        tokenID,
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(c.refreshSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return token, tokenID, exp, nil
}

// VerifyAccessToken checks signature, shape, and expiry of an access token
// and returns its claims. It deliberately does NOT compare the embedded
// token version against live principal state; that is the authentication
// guard's responsibility, keeping cryptographic validity separate from
// business validity.
func (c *Codec) VerifyAccessToken(raw string) (AccessClaims, error) {
	var claims AccessClaims
	if err := c.verify(raw, c.accessSecret, &claims); err != nil {
		return AccessClaims{}, err
	}
	if strings.TrimSpace(claims.Subject) == "" || claims.Role == "" {
		return AccessClaims{}, ErrMalformed
	}
	return claims, nil
}

// VerifyRefreshToken checks signature, shape, and expiry of a refresh token
// against the refresh secret and returns its subject and ledger key.
func (c *Codec) VerifyRefreshToken(raw string) (RefreshClaims, error) {
	var claims RefreshClaims
	if err := c.verify(raw, c.refreshSecret, &claims); err != nil {
		return RefreshClaims{}, err
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.ID) == "" {
		return RefreshClaims{}, ErrMalformed
	}
	return claims, nil
}

func (c *Codec) verify(raw string, secret []byte, claims jwt.Claims) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrMalformed
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, opts...)
	switch {
	case err == nil && parsed.Valid:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return ErrMalformed
	}
}
