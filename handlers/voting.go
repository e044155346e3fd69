// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/voting"
)

// maxUserAgent caps the stored user agent
const maxUserAgent = 256

type VotingHandler struct {
	store *store.Store
	svc   *voting.Service
	cfg   cliparse.Config
}

func NewVotingHandler(st *store.Store, svc *voting.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{store: st, svc: svc, cfg: cfg}
}

// SubmitVote handles POST /elections/{id}/votes
// Runs behind OptionalSession; the service rejects anonymous callers.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	userAgent := r.UserAgent()
	if len(userAgent) > maxUserAgent {
		userAgent = userAgent[:maxUserAgent]
	}
	meta := voting.BallotMeta{
		IPHash:    auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSecret),
		UserAgent: userAgent,
	}

	session := middleware.SessionFromContext(r.Context())
	v, err := h.svc.SubmitVote(r.Context(), session, r.PathValue("id"), req.CandidateID, meta)
	if err != nil {
		if session != nil {
			slog.Debug("vote rejected", "election_id", r.PathValue("id"), "profile_id", session.ProfileID, "reason", voting.Reason(err))
		}
		writeVotingError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		VoteID:  v.ID,
		Message: "Vote recorded",
	})
}

// GetMyVote handles GET /elections/{id}/my-vote
// Anonymous callers get voted=false.
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	e, ok := loadElection(w, r, h.store, r.PathValue("id"))
	if !ok {
		return
	}

	var voterID string
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		voterID = session.ProfileID
	}

	state, err := h.svc.ResolveVoteState(r.Context(), voterID, e.ID)
	if err != nil {
		writeVotingError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStateResponse{
		Voted:       state.Voted,
		CandidateID: state.CandidateID,
	})
}
