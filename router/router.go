// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/handlers"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/voting"
)

func NewRouter(st *store.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	signer := auth.NewSessionSigner(cfg.SessionSecret, time.Now)
	sessions := middleware.NewSessionAuth(signer, st, time.Now)
	svc := voting.NewService(st, voting.Config{Mode: voting.WriteMode(cfg.VoteMode)})

	voteLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.VoteRateLimit), cfg.VoteRateBurst)
	connectLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.VoteRateLimit), cfg.VoteRateBurst)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(st, cfg, signer)
	electionHandler := handlers.NewElectionHandler(st, svc, cfg)
	candidateHandler := handlers.NewCandidateHandler(st, svc, cfg)
	votingHandler := handlers.NewVotingHandler(st, svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc)
	adminRequestHandler := handlers.NewAdminRequestHandler(st, cfg)

	required := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(sessions.RequireSession(h))
	}
	optional := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(sessions.OptionalSession(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Wallet sessions
	mux.HandleFunc("POST /wallet/connect", middleware.WithLogging(middleware.RateLimit(connectLimiter, sessionHandler.Connect)))
	mux.HandleFunc("POST /wallet/disconnect", required(sessionHandler.Disconnect))
	mux.HandleFunc("GET /me", required(sessionHandler.GetMe))
	mux.HandleFunc("GET /me/votes", required(sessionHandler.GetMyVotes))
	mux.HandleFunc("POST /me/college-email", required(sessionHandler.SetCollegeEmail))

	// Elections and polls
	mux.HandleFunc("POST /elections", required(electionHandler.CreateElection))
	mux.HandleFunc("POST /polls", required(electionHandler.CreatePoll))
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.HandleFunc("GET /elections/{id}/candidates", middleware.WithLogging(electionHandler.ListCandidates))
	mux.HandleFunc("POST /elections/{id}/close", required(electionHandler.CloseElection))
	mux.HandleFunc("DELETE /elections/{id}", required(electionHandler.DeleteElection))
	mux.HandleFunc("GET /elections/{id}/votes", required(electionHandler.ListVotes))
	mux.HandleFunc("POST /elections/{id}/reconcile", required(electionHandler.Reconcile))

	// Candidate management (admin or creator)
	mux.HandleFunc("POST /elections/{id}/candidates", required(candidateHandler.AddCandidate))
	mux.HandleFunc("PUT /candidates/{id}", required(candidateHandler.UpdateCandidate))
	mux.HandleFunc("POST /candidates/{id}/verify", required(candidateHandler.VerifyCandidate))
	mux.HandleFunc("DELETE /candidates/{id}", required(candidateHandler.DeleteCandidate))

	// Admin access requests
	mux.HandleFunc("POST /admin-requests", required(adminRequestHandler.Submit))
	mux.HandleFunc("GET /admin-requests", required(adminRequestHandler.List))
	mux.HandleFunc("GET /admin-requests/{id}", required(adminRequestHandler.Get))
	mux.HandleFunc("POST /admin-requests/{id}/approve", required(adminRequestHandler.Approve))
	mux.HandleFunc("POST /admin-requests/{id}/reject", required(adminRequestHandler.Reject))

	// Voting and results (anonymous reads allowed)
	mux.HandleFunc("POST /elections/{id}/votes", optional(middleware.RateLimit(voteLimiter, votingHandler.SubmitVote)))
	mux.HandleFunc("GET /elections/{id}/my-vote", optional(votingHandler.GetMyVote))
	mux.HandleFunc("GET /elections/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votechain API v1"))
	})

	return mux
}
