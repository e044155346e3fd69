// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/votechain/models"
)

// CreateSession records an issued wallet session
func (s *Store) CreateSession(ctx context.Context, ws models.WalletSession) error {
	_, err := s.conn.ExecContext(ctx, s.q(`
		INSERT INTO wallet_session (id, profile_id, created_at, expires_at, revoked_at)
		VALUES (?, ?, ?, ?, ?)
	`), ws.ID, ws.ProfileID, toMillis(ws.CreatedAt), toMillis(ws.ExpiresAt), nullMillis(ws.RevokedAt))
	if err != nil {
		return fmt.Errorf("insert session: %w", classify(err))
	}
	return nil
}

// GetSession returns ErrNotFound when no session has the id
func (s *Store) GetSession(ctx context.Context, id string) (models.WalletSession, error) {
	var ws models.WalletSession
	var createdAt, expiresAt int64
	var revokedAt sql.NullInt64
	err := s.conn.QueryRowContext(ctx, s.q(`
		SELECT id, profile_id, created_at, expires_at, revoked_at
		FROM wallet_session WHERE id = ?
	`), id).Scan(&ws.ID, &ws.ProfileID, &createdAt, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.WalletSession{}, ErrNotFound
	}
	if err != nil {
		return models.WalletSession{}, fmt.Errorf("query session: %w", err)
	}
	ws.CreatedAt = fromMillis(createdAt)
	ws.ExpiresAt = fromMillis(expiresAt)
	ws.RevokedAt = timePtr(revokedAt)
	return ws, nil
}

// RevokeSession marks the session revoked. Revoking twice is a no-op.
func (s *Store) RevokeSession(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, s.q(`
		UPDATE wallet_session SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL
	`), toMillis(s.now()), id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if err := requireAffected(res); errors.Is(err, ErrNotFound) {
		_, getErr := s.GetSession(ctx, id)
		return getErr
	} else if err != nil {
		return err
	}
	return nil
}
