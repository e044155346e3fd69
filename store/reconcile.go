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

// ReconcileTallies recounts ballots per candidate and rewrites any votes_count
// that disagrees. It returns the drift that was corrected; an empty slice
// means the tallies already matched.
func (s *Store) ReconcileTallies(ctx context.Context, electionID string) ([]models.TallyDrift, error) {
	drift := []models.TallyDrift{}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM election WHERE id = ?`), electionID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("query election: %w", err)
		}

		rows, err := tx.QueryContext(ctx, s.q(`
			SELECT c.id, c.votes_count,
				(SELECT COUNT(*) FROM vote v WHERE v.candidate_id = c.id)
			FROM candidate c
			WHERE c.election_id = ?
			ORDER BY c.name, c.id
		`), electionID)
		if err != nil {
			return fmt.Errorf("query tallies: %w", err)
		}
		for rows.Next() {
			var d models.TallyDrift
			if err := rows.Scan(&d.CandidateID, &d.Stored, &d.Counted); err != nil {
				rows.Close()
				return fmt.Errorf("scan tally: %w", err)
			}
			if d.Stored != d.Counted {
				drift = append(drift, d)
			}
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("close tallies: %w", err)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate tallies: %w", err)
		}

		if len(drift) == 0 {
			return nil
		}

		_, err = tx.ExecContext(ctx, s.q(`
			UPDATE candidate
			SET votes_count = (SELECT COUNT(*) FROM vote v WHERE v.candidate_id = candidate.id)
			WHERE election_id = ?
		`), electionID)
		if err != nil {
			return fmt.Errorf("rewrite tallies: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drift, nil
}
