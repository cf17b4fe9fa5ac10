package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrCSRFInvalid is returned when a CSRF token fails verification.
var ErrCSRFInvalid = errors.New("invalid csrf token")

type csrfClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// CSRF issues and verifies HMAC-signed CSRF tokens bound to a session, a
// stateless variant of the double-submit cookie pattern.
type CSRF struct {
	secret []byte
	ttl    time.Duration
}

// NewCSRF constructs a CSRF token signer.
func NewCSRF(secret string, ttl time.Duration) *CSRF {
	return &CSRF{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token tied to the session ID. An empty session ID yields
// a pre-login token usable only for unauthenticated endpoints.
func (c *CSRF) Generate(sessionID string) (string, error) {
	now := time.Now().UTC()
	claims := csrfClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign csrf token: %w", err)
	}
	return signed, nil
}

// Validate checks the token signature, expiry and session binding.
func (c *CSRF) Validate(tokenString, sessionID string) error {
	token, err := jwt.ParseWithClaims(tokenString, &csrfClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrCSRFInvalid
	}
	claims, ok := token.Claims.(*csrfClaims)
	if !ok {
		return ErrCSRFInvalid
	}
	if claims.SessionID != sessionID {
		return ErrCSRFInvalid
	}
	return nil
}
