// internal/app/system/jwtutil/jwtutil.go
package jwtutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long an issued token stays valid when no TTL is configured.
const DefaultTTL = time.Hour

var (
	// ErrNoSecret is returned when signing without a configured secret.
	ErrNoSecret = errors.New("token signing secret is not configured")
	// ErrMissingEmail is returned when a payload or token has no email claim.
	ErrMissingEmail = errors.New("email claim is required")
	// ErrInvalidToken covers bad signatures, wrong algorithms, malformed
	// tokens, expired tokens and tokens checked without a secret.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Issuer signs and verifies HS256 tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. An empty secret is accepted so the server can
// start; Sign and Verify then fail on every call.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
// Used by tests to produce expired tokens.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// Sign issues a token carrying every field of payload plus exp, iat and jti.
// The payload must contain a non-empty string "email".
func (i *Issuer) Sign(payload map[string]any) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrNoSecret
	}
	if email, _ := payload["email"].(string); strings.TrimSpace(email) == "" {
		return "", ErrMissingEmail
	}

	now := i.now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(i.ttl))
	claims["jti"] = uuid.NewString()

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return ss, nil
}

// Verify checks the signature, algorithm and expiry of token and returns its
// claims. The email claim must be present.
func (i *Issuer) Verify(token string) (jwt.MapClaims, error) {
	if len(i.secret) == 0 {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if email, _ := claims["email"].(string); strings.TrimSpace(email) == "" {
		return nil, ErrMissingEmail
	}
	return claims, nil
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}
