// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionIssuer is the iss claim on every session token
const SessionIssuer = "votechain"

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")
)

// SessionClaims is the validated content of a session token
type SessionClaims struct {
	SessionID     string
	ProfileID     string
	WalletAddress string
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Wallet string `json:"wallet"`
}

// SessionSigner issues and verifies HS256 session tokens
type SessionSigner struct {
	secret []byte
	now    func() time.Time
}

// NewSessionSigner returns a signer keyed by secret. now may be nil.
func NewSessionSigner(secret string, now func() time.Time) *SessionSigner {
	if now == nil {
		now = time.Now
	}
	return &SessionSigner{secret: []byte(secret), now: now}
}

// Issue signs a token for the given session
func (s *SessionSigner) Issue(c SessionClaims) (string, error) {
	if c.SessionID == "" || c.ProfileID == "" {
		return "", errors.New("session id and profile id are required")
	}
	if !c.ExpiresAt.After(c.IssuedAt) {
		return "", errors.New("session expiry must be after issue time")
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   c.ProfileID,
			ID:        c.SessionID,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
		Wallet: c.WalletAddress,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// Verify checks signature, issuer, and expiry, and returns the claims
func (s *SessionSigner) Verify(token string) (SessionClaims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SessionClaims{}, ErrInvalidToken
	}

	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return SessionClaims{}, mapJWTError(err)
	}

	if parsed.ID == "" || parsed.Subject == "" {
		return SessionClaims{}, ErrInvalidToken
	}

	claims := SessionClaims{
		SessionID:     parsed.ID,
		ProfileID:     parsed.Subject,
		WalletAddress: parsed.Wallet,
		ExpiresAt:     parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
