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

const adminRequestColumns = `id, user_id, wallet_address, face_id, status, created_at, updated_at`

func scanAdminRequest(row rowScanner) (models.AdminRequest, error) {
	var r models.AdminRequest
	var faceID sql.NullString
	var createdAt, updatedAt int64
	if err := row.Scan(&r.ID, &r.UserID, &r.WalletAddress, &faceID, &r.Status, &createdAt, &updatedAt); err != nil {
		return models.AdminRequest{}, err
	}
	r.FaceID = stringPtr(faceID)
	r.CreatedAt = fromMillis(createdAt)
	r.UpdatedAt = fromMillis(updatedAt)
	return r, nil
}

// CreateAdminRequest files a pending request. It returns ErrConflict when the
// user is already an admin or already has a pending request.
func (s *Store) CreateAdminRequest(ctx context.Context, r models.AdminRequest) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var isAdmin, isSuperAdmin bool
		err := tx.QueryRowContext(ctx, s.q(`
			SELECT is_admin, is_super_admin FROM profile WHERE id = ?
		`), r.UserID).Scan(&isAdmin, &isSuperAdmin)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("query profile: %w", err)
		}
		if isAdmin || isSuperAdmin {
			return fmt.Errorf("%w: already an admin", ErrConflict)
		}

		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO admin_request (`+adminRequestColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), r.ID, r.UserID, r.WalletAddress, r.FaceID, models.RequestPending, toMillis(r.CreatedAt), toMillis(r.CreatedAt))
		if err != nil {
			if errors.Is(classify(err), ErrDuplicate) {
				return fmt.Errorf("%w: a request is already pending", ErrConflict)
			}
			return fmt.Errorf("insert admin request: %w", err)
		}
		return nil
	})
}

// GetAdminRequest returns ErrNotFound when no request has the id
func (s *Store) GetAdminRequest(ctx context.Context, id string) (models.AdminRequest, error) {
	r, err := scanAdminRequest(s.conn.QueryRowContext(ctx, s.q(`
		SELECT `+adminRequestColumns+` FROM admin_request WHERE id = ?
	`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdminRequest{}, ErrNotFound
	}
	if err != nil {
		return models.AdminRequest{}, fmt.Errorf("query admin request: %w", err)
	}
	return r, nil
}

// ListAdminRequests returns requests newest first. An empty status lists all.
func (s *Store) ListAdminRequests(ctx context.Context, status string) ([]models.AdminRequest, error) {
	query := `SELECT ` + adminRequestColumns + ` FROM admin_request`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query admin requests: %w", err)
	}
	defer rows.Close()

	requests := []models.AdminRequest{}
	for rows.Next() {
		r, err := scanAdminRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan admin request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin requests: %w", err)
	}
	return requests, nil
}

// ApproveAdminRequest marks the request approved and grants admin to its user
func (s *Store) ApproveAdminRequest(ctx context.Context, id string) (models.AdminRequest, error) {
	return s.decideAdminRequest(ctx, id, models.RequestApproved)
}

// RejectAdminRequest marks the request rejected
func (s *Store) RejectAdminRequest(ctx context.Context, id string) (models.AdminRequest, error) {
	return s.decideAdminRequest(ctx, id, models.RequestRejected)
}

// decideAdminRequest moves a pending request to status. Only pending requests
// can be decided; anything else is ErrConflict.
func (s *Store) decideAdminRequest(ctx context.Context, id, status string) (models.AdminRequest, error) {
	var decided models.AdminRequest
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, s.q(`
			UPDATE admin_request SET status = ?, updated_at = ?
			WHERE id = ? AND status = ?
		`), status, toMillis(s.now()), id, models.RequestPending)
		if err != nil {
			return fmt.Errorf("update admin request: %w", err)
		}
		if err := requireAffected(res); err != nil {
			var current string
			err := tx.QueryRowContext(ctx, s.q(`SELECT status FROM admin_request WHERE id = ?`), id).Scan(&current)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("query admin request: %w", err)
			}
			return fmt.Errorf("%w: request is %s", ErrConflict, current)
		}

		decided, err = scanAdminRequest(tx.QueryRowContext(ctx, s.q(`
			SELECT `+adminRequestColumns+` FROM admin_request WHERE id = ?
		`), id))
		if err != nil {
			return fmt.Errorf("query admin request: %w", err)
		}

		if status == models.RequestApproved {
			res, err := tx.ExecContext(ctx, s.q(`UPDATE profile SET is_admin = ? WHERE id = ?`), true, decided.UserID)
			if err != nil {
				return fmt.Errorf("grant admin: %w", err)
			}
			if err := requireAffected(res); err != nil {
				return fmt.Errorf("grant admin: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return models.AdminRequest{}, err
	}
	return decided, nil
}
