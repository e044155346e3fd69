// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the VoteChain API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(st, cfg)

# Endpoints

Health:

	GET /health

Wallet sessions (Authorization: Bearer <token> after connect):

	POST /wallet/connect     - Connect or create a wallet profile
	POST /wallet/disconnect  - Revoke the session
	GET  /me                 - Current profile
	GET  /me/votes           - Current profile's ballots
	POST /me/college-email   - Record a college email

Elections and polls:

	POST   /elections                 - Create election (admin)
	POST   /polls                     - Create poll (any session)
	GET    /elections                 - List, ?kind=election|poll
	GET    /elections/{id}            - Election with candidates
	GET    /elections/{id}/candidates - Candidates, ?order=name|votes
	POST   /elections/{id}/close      - End voting now
	DELETE /elections/{id}            - Delete (admin)
	GET    /elections/{id}/votes      - Ballot list (admin or creator)
	POST   /elections/{id}/reconcile  - Recount tallies (admin)

Candidates (admin or creator):

	POST   /elections/{id}/candidates
	PUT    /candidates/{id}
	POST   /candidates/{id}/verify
	DELETE /candidates/{id}

Admin requests:

	POST /admin-requests              - Request admin access
	GET  /admin-requests              - List (super admin)
	GET  /admin-requests/{id}         - One request (super admin or owner)
	POST /admin-requests/{id}/approve - Approve (super admin)
	POST /admin-requests/{id}/reject  - Reject (super admin)

Voting and results:

	POST /elections/{id}/votes   - Cast a ballot (rate limited per IP)
	GET  /elections/{id}/my-vote - Whether the caller has voted
	GET  /elections/{id}/results - Live tallies and ranking

# Handler Initialization

The router builds one voting.Service and one session authenticator and
shares them across handlers:

	svc := voting.NewService(st, voting.Config{Mode: voting.WriteMode(cfg.VoteMode)})
	votingHandler := handlers.NewVotingHandler(st, svc, cfg)
*/
package router
