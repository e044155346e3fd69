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

const voteColumns = `id, election_id, voter_id, candidate_id, ip_hash, user_agent, created_at`

func scanVote(row rowScanner, extra ...any) (models.Vote, error) {
	var v models.Vote
	var ipHash, userAgent sql.NullString
	var createdAt int64
	dest := append([]any{&v.ID, &v.ElectionID, &v.VoterID, &v.CandidateID, &ipHash, &userAgent, &createdAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Vote{}, err
	}
	v.IPHash = stringPtr(ipHash)
	v.UserAgent = stringPtr(userAgent)
	v.CreatedAt = fromMillis(createdAt)
	return v, nil
}

func insertVote(ctx context.Context, ex execer, s *Store, v models.Vote) error {
	_, err := ex.ExecContext(ctx, s.q(`
		INSERT INTO vote (`+voteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), v.ID, v.ElectionID, v.VoterID, v.CandidateID, v.IPHash, v.UserAgent, toMillis(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert vote: %w", classify(err))
	}
	return nil
}

func incrementVotes(ctx context.Context, ex execer, s *Store, electionID, candidateID string) error {
	res, err := ex.ExecContext(ctx, s.q(`
		UPDATE candidate
		SET votes_count = votes_count + 1
		WHERE id = ? AND election_id = ?
	`), candidateID, electionID)
	if err != nil {
		return fmt.Errorf("increment votes: %w", err)
	}
	return requireAffected(res)
}

// GetVoteForUser returns the voter's ballot in the election, or nil if none exists
func (s *Store) GetVoteForUser(ctx context.Context, electionID, voterID string) (*models.Vote, error) {
	row := s.conn.QueryRowContext(ctx, s.q(`
		SELECT `+voteColumns+`
		FROM vote
		WHERE election_id = ? AND voter_id = ?
	`), electionID, voterID)
	v, err := scanVote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query vote: %w", err)
	}
	return &v, nil
}

// InsertVote records a ballot without touching the tally.
// A second ballot for the same (election, voter) returns ErrDuplicate.
func (s *Store) InsertVote(ctx context.Context, v models.Vote) error {
	return insertVote(ctx, s.conn, s, v)
}

// IncrementCandidateVotes adds one to the candidate's tally in SQL.
// Returns ErrNotFound if the candidate is not in the election.
func (s *Store) IncrementCandidateVotes(ctx context.Context, electionID, candidateID string) error {
	return incrementVotes(ctx, s.conn, s, electionID, candidateID)
}

// CastVote inserts the ballot and increments the tally in one transaction
func (s *Store) CastVote(ctx context.Context, v models.Vote) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertVote(ctx, tx, s, v); err != nil {
			return err
		}
		return incrementVotes(ctx, tx, s, v.ElectionID, v.CandidateID)
	})
}

// ListVotesByElection returns every ballot in the election with the voter's wallet
func (s *Store) ListVotesByElection(ctx context.Context, electionID string) ([]models.BallotRecord, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(`
		SELECT v.id, v.election_id, v.voter_id, v.candidate_id, v.ip_hash, v.user_agent, v.created_at, p.wallet_address
		FROM vote v
		JOIN profile p ON p.id = v.voter_id
		WHERE v.election_id = ?
		ORDER BY v.created_at, v.id
	`), electionID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	records := []models.BallotRecord{}
	for rows.Next() {
		var rec models.BallotRecord
		v, err := scanVote(rows, &rec.WalletAddress)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		rec.Vote = v
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return records, nil
}

// ListVotesByVoter returns the voter's ballots, newest first
func (s *Store) ListVotesByVoter(ctx context.Context, voterID string) ([]models.Vote, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(`
		SELECT `+voteColumns+`
		FROM vote
		WHERE voter_id = ?
		ORDER BY created_at DESC, id
	`), voterID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}
	return votes, nil
}

// CountVotes returns the number of ballots in the election
func (s *Store) CountVotes(ctx context.Context, electionID string) (int, error) {
	var n int
	err := s.conn.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM vote WHERE election_id = ?`), electionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return n, nil
}
