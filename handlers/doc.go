// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the VoteChain API.

# Handler Types

Each handler is a struct with store, service, and config dependencies:

  - SessionHandler: Wallet connect/disconnect and the caller's profile
  - ElectionHandler: Election and poll creation, listing, close, delete
  - CandidateHandler: Candidate add, edit, verify, delete
  - VotingHandler: Ballot submission and vote state
  - ResultsHandler: Live tallies and ranking
  - AdminRequestHandler: Admin access requests and decisions

Handlers are created via constructor functions:

	votingHandler := handlers.NewVotingHandler(st, svc, cfg)

# Sessions

The router wraps handlers in middleware.RequireSession or
middleware.OptionalSession. Handlers read the caller with
middleware.SessionFromContext and check rights with Session.CanAdminister
and Session.CanManage.

# Voting Flow

	POST /elections/{id}/votes   → SubmitVote (201, or 4xx with a reason)
	GET  /elections/{id}/my-vote → GetMyVote
	GET  /elections/{id}/results → GetResults

All decisions live in voting.Service. Handlers translate its sentinel
errors to HTTP with writeVotingError, so every error body carries a
stable reason code such as "already_voted" or "election_closed".

# Elections

An election is open until its end time. Closing sets the end time to now;
there is no separate status column.

	POST /elections/{id}/close     → CloseElection
	POST /elections/{id}/reconcile → Reconcile (recount tallies from ballots)
*/
package handlers
