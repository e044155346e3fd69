// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
)

// IsOpen reports whether the election accepts votes at now.
// The end time itself is still open.
func IsOpen(e models.Election, now time.Time) bool {
	return !now.After(e.EndTime)
}

// StatusAt derives the election status at now
func StatusAt(e models.Election, now time.Time) string {
	if IsOpen(e, now) {
		return models.StatusOpen
	}
	return models.StatusClosed
}

// Status derives the election status from the service clock
func (s *Service) Status(e models.Election) string {
	return StatusAt(e, s.now())
}

// CloseElection ends an election early by moving its end time to now.
// Only admins and the creator may close; closing is one-way.
func (s *Service) CloseElection(ctx context.Context, session *models.Session, electionID string) (models.Election, error) {
	if session == nil {
		return models.Election{}, ErrNotAuthenticated
	}

	e, err := s.election(ctx, electionID)
	if err != nil {
		return models.Election{}, err
	}

	if !session.CanManage(e) {
		return models.Election{}, ErrForbidden
	}

	now := s.now()
	if !IsOpen(e, now) {
		return models.Election{}, ErrElectionClosed
	}

	if err := s.backend.SetElectionEndTime(ctx, e.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Election{}, ErrElectionNotFound
		}
		return models.Election{}, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	e.EndTime = now

	slog.Info("election closed", "election_id", e.ID, "by", session.WalletAddress)
	return e, nil
}
