package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is what the console keeps in its session cookie: the backend
// access token issued at login plus enough to identify the admin in logs.
type SessionClaims struct {
	AccessToken string `json:"at"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// NewSessionToken signs an HS256 cookie value valid for ttl.
func NewSessionToken(secret, accessToken, email string, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("session secret is empty")
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := SessionClaims{
		AccessToken: accessToken,
		Email:       email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        GenerateUUIDString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// ParseSessionToken verifies signature and expiry and returns the claims.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !tok.Valid || claims.AccessToken == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
