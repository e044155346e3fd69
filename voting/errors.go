// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

// Rejection reasons. Each error's reason code is stable and is returned to clients.
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrNoSelection        = errors.New("no candidate selected")
	ErrElectionNotFound   = errors.New("election not found")
	ErrCandidateNotFound  = errors.New("candidate not found in election")
	ErrElectionClosed     = errors.New("election is closed")
	ErrAlreadyVoted       = errors.New("already voted in this election")
	ErrTallyUpdateFailed  = errors.New("vote recorded but tally update failed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrForbidden          = errors.New("not allowed to manage this election")
)

var reasons = []struct {
	err  error
	code string
}{
	{ErrNotAuthenticated, "not_authenticated"},
	{ErrNoSelection, "no_selection"},
	{ErrElectionNotFound, "election_not_found"},
	{ErrCandidateNotFound, "candidate_not_found"},
	{ErrElectionClosed, "election_closed"},
	{ErrAlreadyVoted, "already_voted"},
	{ErrTallyUpdateFailed, "tally_update_failed"},
	{ErrBackendUnavailable, "backend_unavailable"},
	{ErrForbidden, "forbidden"},
}

// Reason returns the reason code for err, or "" if err is not a voting error
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ""
}
