// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/voting"
)

// CandidateHandler manages candidates. Every operation is limited to admins
// and the election's creator.
type CandidateHandler struct {
	store *store.Store
	svc   *voting.Service
	cfg   cliparse.Config
}

func NewCandidateHandler(st *store.Store, svc *voting.Service, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{store: st, svc: svc, cfg: cfg}
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *CandidateHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	e, ok := loadElection(w, r, h.store, r.PathValue("id"))
	if !ok {
		return
	}
	if !session.CanManage(e) {
		forbidden(w, "Not allowed to manage this election")
		return
	}
	if h.svc.Status(e) != models.StatusOpen {
		middleware.ReasonErrorResponse(w, http.StatusConflict, "Election is closed", voting.Reason(voting.ErrElectionClosed))
		return
	}

	var req models.CandidateInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	trimCandidateInput(&req)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	c := newCandidate(e.ID, req, time.Now().UTC().Truncate(time.Millisecond))
	if err := h.store.AddCandidate(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			middleware.ErrorResponse(w, http.StatusConflict, "A candidate with that name already exists")
			return
		}
		slog.Error("failed to add candidate", "error", err, "election_id", e.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "election_id", e.ID, "candidate_id", c.ID)

	middleware.JSONResponse(w, http.StatusCreated, c)
}

// UpdateCandidate handles PUT /candidates/{id}
// Only descriptive fields change; the vote tally is never written here.
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadManagedCandidate(w, r)
	if !ok {
		return
	}

	var req models.CandidateInput
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	trimCandidateInput(&req)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	c.Name = req.Name
	c.Bio = req.Bio
	c.Position = req.Position
	c.PhotoURL = req.PhotoURL

	if err := h.store.UpdateCandidate(r.Context(), c); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			middleware.ErrorResponse(w, http.StatusConflict, "A candidate with that name already exists")
		case errors.Is(err, store.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		default:
			slog.Error("failed to update candidate", "error", err, "candidate_id", c.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		}
		return
	}

	h.respondCandidate(w, r, c.ID)
}

// VerifyCandidate handles POST /candidates/{id}/verify
func (h *CandidateHandler) VerifyCandidate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadManagedCandidate(w, r)
	if !ok {
		return
	}

	var req models.VerifyCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.SetCandidateVerified(r.Context(), c.ID, req.Verified); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		slog.Error("failed to verify candidate", "error", err, "candidate_id", c.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify candidate")
		return
	}

	slog.Info("candidate verification changed", "candidate_id", c.ID, "verified", req.Verified)
	h.respondCandidate(w, r, c.ID)
}

// DeleteCandidate handles DELETE /candidates/{id}
// The candidate's votes go with it, so the tally still matches the ballots.
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadManagedCandidate(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteCandidate(r.Context(), c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		slog.Error("failed to delete candidate", "error", err, "candidate_id", c.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}

	slog.Info("candidate deleted", "candidate_id", c.ID, "election_id", c.ElectionID, "votes_removed", c.VotesCount)
	w.WriteHeader(http.StatusNoContent)
}

// loadManagedCandidate loads the {id} candidate and checks the caller may manage its election
func (h *CandidateHandler) loadManagedCandidate(w http.ResponseWriter, r *http.Request) (models.Candidate, bool) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return models.Candidate{}, false
	}

	id := r.PathValue("id")
	c, err := h.store.GetCandidate(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return models.Candidate{}, false
	}
	if err != nil {
		slog.Error("failed to load candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Candidate{}, false
	}

	e, ok := loadElection(w, r, h.store, c.ElectionID)
	if !ok {
		return models.Candidate{}, false
	}
	if !session.CanManage(e) {
		forbidden(w, "Not allowed to manage this election")
		return models.Candidate{}, false
	}
	return c, true
}

func (h *CandidateHandler) respondCandidate(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.store.GetCandidate(r.Context(), id)
	if err != nil {
		slog.Error("failed to reload candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, c)
}

func trimCandidateInput(in *models.CandidateInput) {
	in.Name = strings.TrimSpace(in.Name)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Position = strings.TrimSpace(in.Position)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
}
