// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/models"
)

const profileColumns = `id, wallet_address, is_admin, is_super_admin, college_email, college_verified, created_at`

func scanProfile(row rowScanner) (models.Profile, error) {
	var p models.Profile
	var email sql.NullString
	var createdAt int64
	if err := row.Scan(&p.ID, &p.WalletAddress, &p.IsAdmin, &p.IsSuperAdmin, &email, &p.CollegeVerified, &createdAt); err != nil {
		return models.Profile{}, err
	}
	p.CollegeEmail = stringPtr(email)
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

// UpsertProfile returns the profile for a wallet, creating it on first connect.
// superAdmin promotes the profile to admin and super-admin.
func (s *Store) UpsertProfile(ctx context.Context, wallet string, superAdmin bool) (models.Profile, error) {
	var p models.Profile
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO profile (id, wallet_address, is_admin, is_super_admin, college_verified, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (wallet_address) DO NOTHING
		`), auth.NewID(), wallet, superAdmin, superAdmin, false, toMillis(s.now()))
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}

		if superAdmin {
			_, err = tx.ExecContext(ctx, s.q(`
				UPDATE profile SET is_admin = ?, is_super_admin = ? WHERE wallet_address = ?
			`), true, true, wallet)
			if err != nil {
				return fmt.Errorf("promote profile: %w", err)
			}
		}

		p, err = scanProfile(tx.QueryRowContext(ctx, s.q(`
			SELECT `+profileColumns+` FROM profile WHERE wallet_address = ?
		`), wallet))
		if err != nil {
			return fmt.Errorf("query profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// GetProfile returns ErrNotFound when no profile has the id
func (s *Store) GetProfile(ctx context.Context, id string) (models.Profile, error) {
	p, err := scanProfile(s.conn.QueryRowContext(ctx, s.q(`SELECT `+profileColumns+` FROM profile WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// SetCollegeEmail stores the email and whether it counts as verified
func (s *Store) SetCollegeEmail(ctx context.Context, profileID, email string, verified bool) (models.Profile, error) {
	res, err := s.conn.ExecContext(ctx, s.q(`
		UPDATE profile SET college_email = ?, college_verified = ? WHERE id = ?
	`), email, verified, profileID)
	if err != nil {
		return models.Profile{}, fmt.Errorf("update college email: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return models.Profile{}, err
	}
	return s.GetProfile(ctx, profileID)
}
