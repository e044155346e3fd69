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

const candidateColumns = `id, election_id, name, bio, position, photo_url, verified, votes_count, created_at`

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var createdAt int64
	if err := row.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Bio, &c.Position, &c.PhotoURL,
		&c.Verified, &c.VotesCount, &createdAt); err != nil {
		return models.Candidate{}, err
	}
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertCandidate(ctx context.Context, ex execer, s *Store, c models.Candidate) error {
	_, err := ex.ExecContext(ctx, s.q(`
		INSERT INTO candidate (id, election_id, name, bio, position, photo_url, verified, votes_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
	`), c.ID, c.ElectionID, c.Name, c.Bio, c.Position, c.PhotoURL, c.Verified, toMillis(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert candidate %q: %w", c.Name, classify(err))
	}
	return nil
}

// AddCandidate inserts a candidate with a zero tally.
// A name already used in the election returns ErrDuplicate.
func (s *Store) AddCandidate(ctx context.Context, c models.Candidate) error {
	return insertCandidate(ctx, s.conn, s, c)
}

// ListCandidates returns the election's candidates in the requested order.
// Ties break on name then id so the order is deterministic.
func (s *Store) ListCandidates(ctx context.Context, electionID string, order models.CandidateOrder) ([]models.Candidate, error) {
	orderBy := `name, id`
	switch order {
	case "", models.OrderByName:
	case models.OrderByVotes:
		orderBy = `votes_count DESC, name, id`
	default:
		return nil, fmt.Errorf("unknown candidate order %q", order)
	}

	rows, err := s.conn.QueryContext(ctx, s.q(`
		SELECT `+candidateColumns+`
		FROM candidate
		WHERE election_id = ?
		ORDER BY `+orderBy), electionID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// GetCandidate returns ErrNotFound when no candidate has the id
func (s *Store) GetCandidate(ctx context.Context, id string) (models.Candidate, error) {
	row := s.conn.QueryRowContext(ctx, s.q(`SELECT `+candidateColumns+` FROM candidate WHERE id = ?`), id)
	c, err := scanCandidate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("query candidate: %w", err)
	}
	return c, nil
}

// UpdateCandidate rewrites the descriptive fields. votes_count and verified
// are not touched.
func (s *Store) UpdateCandidate(ctx context.Context, c models.Candidate) error {
	res, err := s.conn.ExecContext(ctx, s.q(`
		UPDATE candidate
		SET name = ?, bio = ?, position = ?, photo_url = ?
		WHERE id = ?
	`), c.Name, c.Bio, c.Position, c.PhotoURL, c.ID)
	if err != nil {
		return fmt.Errorf("update candidate: %w", classify(err))
	}
	return requireAffected(res)
}

// SetCandidateVerified flags a candidate as verified or not
func (s *Store) SetCandidateVerified(ctx context.Context, id string, verified bool) error {
	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE candidate SET verified = ? WHERE id = ?`), verified, id)
	if err != nil {
		return fmt.Errorf("verify candidate: %w", err)
	}
	return requireAffected(res)
}

// DeleteCandidate removes a candidate. Its votes cascade with it, so the
// election's tally still matches its ballots.
func (s *Store) DeleteCandidate(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, s.q(`DELETE FROM candidate WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete candidate: %w", err)
	}
	return requireAffected(res)
}
