// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
)

// WriteMode selects how a ballot and its tally increment are written
type WriteMode string

const (
	// ModeAtomic writes the ballot and the increment in one transaction
	ModeAtomic WriteMode = "atomic"
	// ModeSequential writes the ballot, then the increment. A failed
	// increment is reported as ErrTallyUpdateFailed.
	ModeSequential WriteMode = "sequential"
)

// Backend is the persistence the voting core needs. Lookups return
// store.ErrNotFound for missing rows and writes return store.ErrDuplicate for
// unique violations.
type Backend interface {
	GetElection(ctx context.Context, id string) (models.Election, error)
	ListCandidates(ctx context.Context, electionID string, order models.CandidateOrder) ([]models.Candidate, error)
	GetCandidate(ctx context.Context, id string) (models.Candidate, error)
	GetVoteForUser(ctx context.Context, electionID, voterID string) (*models.Vote, error)
	InsertVote(ctx context.Context, v models.Vote) error
	IncrementCandidateVotes(ctx context.Context, electionID, candidateID string) error
	CastVote(ctx context.Context, v models.Vote) error
	SetElectionEndTime(ctx context.Context, id string, endTime time.Time) error
}

// Config tunes a Service. The zero value is ModeAtomic on the wall clock.
type Config struct {
	Mode WriteMode
	// Now is the service clock. Defaults to time.Now.
	Now func() time.Time
}

// Service runs vote submission, vote-state resolution, results, and closing
type Service struct {
	backend Backend
	mode    WriteMode
	now     func() time.Time
}

// NewService returns a Service over backend, filling unset Config fields
// with their defaults
func NewService(backend Backend, cfg Config) *Service {
	s := &Service{backend: backend, mode: cfg.Mode, now: cfg.Now}
	if s.mode == "" {
		s.mode = ModeAtomic
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// VoteState is whether a voter has a ballot in an election
type VoteState struct {
	Voted       bool   `json:"voted"`
	CandidateID string `json:"candidate_id,omitempty"`
}

// BallotMeta is request metadata stored alongside a ballot
type BallotMeta struct {
	IPHash    string
	UserAgent string
}

// ResolveVoteState reports whether voterID has voted in the election.
// An anonymous voter has not voted. This is a read, not an authorization check.
func (s *Service) ResolveVoteState(ctx context.Context, voterID, electionID string) (VoteState, error) {
	if voterID == "" {
		return VoteState{}, nil
	}

	v, err := s.backend.GetVoteForUser(ctx, electionID, voterID)
	if err != nil {
		return VoteState{}, unavailable(err)
	}
	if v == nil {
		return VoteState{}, nil
	}
	return VoteState{Voted: true, CandidateID: v.CandidateID}, nil
}

// SubmitVote records the session's vote for candidateID.
// Checks run in order and the first failure is returned with no write:
// authentication, selection, election exists, election open, not already
// voted, candidate belongs to election.
func (s *Service) SubmitVote(ctx context.Context, session *models.Session, electionID, candidateID string, meta BallotMeta) (models.Vote, error) {
	if session == nil || session.ProfileID == "" {
		return models.Vote{}, ErrNotAuthenticated
	}

	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return models.Vote{}, ErrNoSelection
	}

	e, err := s.election(ctx, electionID)
	if err != nil {
		return models.Vote{}, err
	}

	now := s.now()
	if !IsOpen(e, now) {
		return models.Vote{}, ErrElectionClosed
	}

	state, err := s.ResolveVoteState(ctx, session.ProfileID, e.ID)
	if err != nil {
		return models.Vote{}, err
	}
	if state.Voted {
		return models.Vote{}, ErrAlreadyVoted
	}

	c, err := s.backend.GetCandidate(ctx, candidateID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Vote{}, ErrCandidateNotFound
	}
	if err != nil {
		return models.Vote{}, unavailable(err)
	}
	if c.ElectionID != e.ID {
		return models.Vote{}, ErrCandidateNotFound
	}

	v := models.Vote{
		ID:          auth.NewID(),
		ElectionID:  e.ID,
		VoterID:     session.ProfileID,
		CandidateID: c.ID,
		IPHash:      optional(meta.IPHash),
		UserAgent:   optional(meta.UserAgent),
		CreatedAt:   now,
	}

	if s.mode == ModeSequential {
		err = s.writeSequential(ctx, v)
	} else {
		err = s.writeAtomic(ctx, v)
	}
	if err != nil {
		return models.Vote{}, err
	}

	slog.Info("vote recorded", "election_id", v.ElectionID, "candidate_id", v.CandidateID, "vote_id", v.ID)
	return v, nil
}

func (s *Service) writeAtomic(ctx context.Context, v models.Vote) error {
	err := s.backend.CastVote(ctx, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrDuplicate):
		return ErrAlreadyVoted
	case errors.Is(err, store.ErrNotFound):
		// Candidate moved or vanished between the check and the write
		return ErrCandidateNotFound
	default:
		return unavailable(err)
	}
}

func (s *Service) writeSequential(ctx context.Context, v models.Vote) error {
	if err := s.backend.InsertVote(ctx, v); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyVoted
		}
		return unavailable(err)
	}

	if err := s.backend.IncrementCandidateVotes(ctx, v.ElectionID, v.CandidateID); err != nil {
		slog.Error("tally update failed after vote insert",
			"error", err,
			"election_id", v.ElectionID,
			"candidate_id", v.CandidateID,
			"voter_id", v.VoterID,
			"vote_id", v.ID,
		)
		return fmt.Errorf("%w: %w", ErrTallyUpdateFailed, err)
	}
	return nil
}

// election loads an election, mapping a missing row to ErrElectionNotFound
func (s *Service) election(ctx context.Context, id string) (models.Election, error) {
	if strings.TrimSpace(id) == "" {
		return models.Election{}, ErrElectionNotFound
	}
	e, err := s.backend.GetElection(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Election{}, ErrElectionNotFound
	}
	if err != nil {
		return models.Election{}, unavailable(err)
	}
	return e, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
