// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/voting"
)

// votingErrors maps each voting sentinel to its HTTP status and client message
var votingErrors = []struct {
	err     error
	status  int
	message string
}{
	{voting.ErrNotAuthenticated, http.StatusUnauthorized, "Connect a wallet to continue"},
	{voting.ErrNoSelection, http.StatusBadRequest, "candidate_id is required"},
	{voting.ErrElectionNotFound, http.StatusNotFound, "Election not found"},
	{voting.ErrCandidateNotFound, http.StatusBadRequest, "Candidate not found in this election"},
	{voting.ErrElectionClosed, http.StatusConflict, "Election is closed"},
	{voting.ErrAlreadyVoted, http.StatusConflict, "You have already voted in this election"},
	{voting.ErrTallyUpdateFailed, http.StatusInternalServerError, "Vote recorded but the tally could not be updated"},
	{voting.ErrForbidden, http.StatusForbidden, "Not allowed to manage this election"},
	{voting.ErrBackendUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
}

// writeVotingError writes the response for an error returned by the voting service
func writeVotingError(w http.ResponseWriter, err error) {
	for _, ve := range votingErrors {
		if errors.Is(err, ve.err) {
			if ve.status >= http.StatusInternalServerError {
				slog.Error("voting request failed", "error", err, "reason", voting.Reason(err))
			}
			middleware.ReasonErrorResponse(w, ve.status, ve.message, voting.Reason(err))
			return
		}
	}

	slog.Error("unexpected voting error", "error", err)
	middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
}

// forbidden writes a 403 with the forbidden reason code
func forbidden(w http.ResponseWriter, message string) {
	middleware.ReasonErrorResponse(w, http.StatusForbidden, message, voting.Reason(voting.ErrForbidden))
}

// unauthenticated writes a 401 with the not_authenticated reason code
func unauthenticated(w http.ResponseWriter) {
	middleware.ReasonErrorResponse(w, http.StatusUnauthorized, "A valid session is required", voting.Reason(voting.ErrNotAuthenticated))
}
