// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ConnectWalletRequest: optional wallet_address
  - CreateElectionRequest: question, description, end_time, candidates
  - SubmitVoteRequest: candidate_id
  - VerifyCandidateRequest: verified
  - CollegeEmailRequest: email
  - AdminAccessRequest: optional face_id

# Response Types

Types for JSON responses:

  - ConnectWalletResponse: token, expires_at, profile
  - ElectionWithCandidates: election, status, candidates
  - VoteStateResponse: voted, candidate_id
  - SubmitVoteResponse: vote_id, message
  - ReconcileResponse: election_id, drift
  - ErrorResponse: error, message, reason

# Domain Types

  - Profile: wallet identity and admin flags
  - Session: the authenticated caller for one request
  - Election: a question with a close time; IsElection separates formal
    elections from plain polls
  - Candidate: a selectable option with a denormalized vote tally
  - Vote: one ballot, unique per (election, voter)
  - AdminRequest: a pending/approved/rejected request for admin access
  - TallyDrift: a counter that disagreed with its ballots

# Constants

Derived election status:

	StatusOpen   = "open"
	StatusClosed = "closed"

Candidate orderings:

	OrderByName  = "name"
	OrderByVotes = "votes"
*/
package models
