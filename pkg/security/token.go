// Package security contains everything related to session tokens
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSecret     = errors.New("no token secret provided")
)

// Claims embedded in every session token. Only the user ID is ours, the rest
// are the registered iat/exp claims.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens mints and verifies HS256 session tokens. Tokens are never stored,
// validity is the signature plus the expiry.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token for userID that expires after the configured TTL
func (t *Tokens) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("no user ID provided")
	}

	now := t.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	})

	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token, %w", err)
	}

	return s, nil
}

// Parse verifies the signature and expiry of s and returns the embedded user ID.
// Every failure is reported as ErrInvalidToken.
func (t *Tokens) Parse(s string) (string, error) {
	if s == "" {
		return "", ErrInvalidToken
	}

	var claims Claims

	_, err := jwt.ParseWithClaims(s, &claims, func(tk *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}

	return claims.UserID, nil
}
