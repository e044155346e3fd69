// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting is the vote and result core.

It runs against a Backend, which store.Store implements:

	svc := voting.NewService(st, voting.Config{Mode: voting.ModeAtomic})

# Submitting

SubmitVote checks, in order, and stops at the first failure without writing:

 1. session present (ErrNotAuthenticated)
 2. candidate selected (ErrNoSelection)
 3. election exists (ErrElectionNotFound)
 4. now <= end_time (ErrElectionClosed)
 5. voter has no ballot yet (ErrAlreadyVoted)
 6. candidate belongs to the election (ErrCandidateNotFound)

The pre-check in step 5 can race. The UNIQUE (election_id, voter_id)
constraint is what actually prevents a second ballot, and a violation is
reported as ErrAlreadyVoted.

In ModeAtomic the ballot and the votes_count increment commit together. In
ModeSequential the increment runs after the ballot insert; if it fails the
ballot stays and ErrTallyUpdateFailed is returned. store.ReconcileTallies
repairs the counter.

Backend failures are wrapped with ErrBackendUnavailable. Reason maps any of
these errors to its stable reason code.

# Results

Tally is a pure projection of candidate tallies:

	res := voting.Tally(candidates)
	// res.TotalVotes, res.PerCandidate[i].Percentage, res.Ranking

Percentages are round(votes/total*100), 0 when nobody has voted. Ranking is
by votes descending and stable on input order.

# Lifecycle

Status is never stored. IsOpen and StatusAt derive it from end_time on every
read. CloseElection moves end_time to now; there is no reopen.
*/
package voting
