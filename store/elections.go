// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/votechain/models"
)

const electionColumns = `id, question, description, creator, is_election, created_at, end_time`

func scanElection(row rowScanner) (models.Election, error) {
	var e models.Election
	var createdAt, endTime int64
	if err := row.Scan(&e.ID, &e.Question, &e.Description, &e.Creator, &e.IsElection, &createdAt, &endTime); err != nil {
		return models.Election{}, err
	}
	e.CreatedAt = fromMillis(createdAt)
	e.EndTime = fromMillis(endTime)
	return e, nil
}

// CreateElection inserts the election and its candidates in one transaction.
// A duplicate candidate name leaves nothing behind.
func (s *Store) CreateElection(ctx context.Context, e models.Election, candidates []models.Candidate) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.q(`
			INSERT INTO election (`+electionColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), e.ID, e.Question, e.Description, e.Creator, e.IsElection, toMillis(e.CreatedAt), toMillis(e.EndTime))
		if err != nil {
			return fmt.Errorf("insert election: %w", classify(err))
		}

		for _, c := range candidates {
			if err := insertCandidate(ctx, tx, s, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetElection returns ErrNotFound when no election has the id
func (s *Store) GetElection(ctx context.Context, id string) (models.Election, error) {
	row := s.conn.QueryRowContext(ctx, s.q(`SELECT `+electionColumns+` FROM election WHERE id = ?`), id)
	e, err := scanElection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("query election: %w", err)
	}
	return e, nil
}

// ListElections returns elections newest first, with candidate and vote counts.
// kind is one of models.KindAll, KindElection, KindPoll. Status is left for
// the caller to derive.
func (s *Store) ListElections(ctx context.Context, kind string) ([]models.ElectionSummary, error) {
	query := `
		SELECT e.id, e.question, e.description, e.creator, e.is_election, e.created_at, e.end_time,
			(SELECT COUNT(*) FROM candidate c WHERE c.election_id = e.id),
			(SELECT COUNT(*) FROM vote v WHERE v.election_id = e.id)
		FROM election e`
	var args []any
	switch kind {
	case "", models.KindAll:
	case models.KindElection:
		query += ` WHERE e.is_election = ?`
		args = append(args, true)
	case models.KindPoll:
		query += ` WHERE e.is_election = ?`
		args = append(args, false)
	default:
		return nil, fmt.Errorf("unknown election kind %q", kind)
	}
	query += ` ORDER BY e.created_at DESC, e.id`

	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query elections: %w", err)
	}
	defer rows.Close()

	summaries := []models.ElectionSummary{}
	for rows.Next() {
		var sum models.ElectionSummary
		var createdAt, endTime int64
		if err := rows.Scan(&sum.ID, &sum.Question, &sum.Description, &sum.Creator, &sum.IsElection,
			&createdAt, &endTime, &sum.CandidateCount, &sum.TotalVotes); err != nil {
			return nil, fmt.Errorf("scan election: %w", err)
		}
		sum.CreatedAt = fromMillis(createdAt)
		sum.EndTime = fromMillis(endTime)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate elections: %w", err)
	}
	return summaries, nil
}

// SetElectionEndTime moves the close time of an election
func (s *Store) SetElectionEndTime(ctx context.Context, id string, endTime time.Time) error {
	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE election SET end_time = ? WHERE id = ?`), toMillis(endTime), id)
	if err != nil {
		return fmt.Errorf("update election end time: %w", err)
	}
	return requireAffected(res)
}

// DeleteElection removes an election. Candidates and votes cascade.
func (s *Store) DeleteElection(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, s.q(`DELETE FROM election WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete election: %w", err)
	}
	return requireAffected(res)
}
