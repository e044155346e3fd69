// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
)

var (
	// ErrNoCredentials means the request carried no bearer token
	ErrNoCredentials = errors.New("no session token")
	// ErrSessionRevoked means the token's session was disconnected or has expired
	ErrSessionRevoked = errors.New("session revoked or expired")
)

type sessionKey struct{}

// SessionStore loads the rows behind a session token
type SessionStore interface {
	GetSession(ctx context.Context, id string) (models.WalletSession, error)
	GetProfile(ctx context.Context, id string) (models.Profile, error)
}

// SessionAuth resolves bearer tokens into sessions
type SessionAuth struct {
	signer *auth.SessionSigner
	store  SessionStore
	now    func() time.Time
}

func NewSessionAuth(signer *auth.SessionSigner, store SessionStore, now func() time.Time) *SessionAuth {
	if now == nil {
		now = time.Now
	}
	return &SessionAuth{signer: signer, store: store, now: now}
}

// WithSession stores the caller's session in ctx
func WithSession(ctx context.Context, s *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the caller's session, or nil for anonymous requests
func SessionFromContext(ctx context.Context) *models.Session {
	s, _ := ctx.Value(sessionKey{}).(*models.Session)
	return s
}

// BearerToken extracts the token from an Authorization: Bearer header
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// Authenticate verifies the request's token and loads its session and profile.
// Admin flags come from the profile row, so grants take effect without reconnecting.
func (a *SessionAuth) Authenticate(r *http.Request) (*models.Session, error) {
	token := BearerToken(r)
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.signer.Verify(token)
	if err != nil {
		return nil, err
	}

	ctx := r.Context()
	ws, err := a.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionRevoked
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if ws.RevokedAt != nil || !a.now().Before(ws.ExpiresAt) || ws.ProfileID != claims.ProfileID {
		return nil, ErrSessionRevoked
	}

	p, err := a.store.GetProfile(ctx, ws.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionRevoked
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &models.Session{
		SessionID:       ws.ID,
		ProfileID:       p.ID,
		WalletAddress:   p.WalletAddress,
		IsAdmin:         p.IsAdmin,
		IsSuperAdmin:    p.IsSuperAdmin,
		CollegeVerified: p.CollegeVerified,
	}, nil
}

func isAuthFailure(err error) bool {
	return errors.Is(err, ErrNoCredentials) ||
		errors.Is(err, ErrSessionRevoked) ||
		errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken)
}

// RequireSession rejects requests without a valid session
func (a *SessionAuth) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.Authenticate(r)
		if err != nil {
			if isAuthFailure(err) {
				ReasonErrorResponse(w, http.StatusUnauthorized, "A valid session is required", "not_authenticated")
				return
			}
			slog.Error("session lookup failed", "error", err)
			ReasonErrorResponse(w, http.StatusServiceUnavailable, "Session store unavailable", "backend_unavailable")
			return
		}

		next(w, r.WithContext(WithSession(r.Context(), s)))
	}
}

// OptionalSession attaches a session when the request has a valid one and
// otherwise continues anonymously. A failing session store is a 503, not an
// anonymous caller.
func (a *SessionAuth) OptionalSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := a.Authenticate(r)
		if err != nil {
			if !isAuthFailure(err) {
				slog.Error("session lookup failed", "error", err)
				ReasonErrorResponse(w, http.StatusServiceUnavailable, "Session store unavailable", "backend_unavailable")
				return
			}
			if !errors.Is(err, ErrNoCredentials) {
				slog.Debug("continuing without session", "error", err)
			}
			next(w, r)
			return
		}

		next(w, r.WithContext(WithSession(r.Context(), s)))
	}
}
