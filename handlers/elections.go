// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/voting"
)

type ElectionHandler struct {
	store *store.Store
	svc   *voting.Service
	cfg   cliparse.Config
}

func NewElectionHandler(st *store.Store, svc *voting.Service, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{store: st, svc: svc, cfg: cfg}
}

// CreateElection handles POST /elections (admins only)
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}
	if !session.CanAdminister() {
		forbidden(w, "Only admins can create elections")
		return
	}
	h.create(w, r, session, true)
}

// CreatePoll handles POST /polls (any connected wallet)
func (h *ElectionHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}
	h.create(w, r, session, false)
}

func (h *ElectionHandler) create(w http.ResponseWriter, r *http.Request, session *models.Session, isElection bool) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := validateElectionRequest(&req, now); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e := models.Election{
		ID:          auth.NewID(),
		Question:    req.Question,
		Description: req.Description,
		Creator:     session.WalletAddress,
		IsElection:  isElection,
		CreatedAt:   now,
		EndTime:     req.EndTime.UTC().Truncate(time.Millisecond),
	}

	candidates := make([]models.Candidate, 0, len(req.Candidates))
	for _, in := range req.Candidates {
		candidates = append(candidates, newCandidate(e.ID, in, now))
	}

	// Election row and candidate rows commit together
	if err := h.store.CreateElection(r.Context(), e, candidates); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			middleware.ErrorResponse(w, http.StatusConflict, "Candidate names must be unique")
			return
		}
		slog.Error("failed to create election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", e.ID, "is_election", isElection, "creator", e.Creator, "candidates", len(candidates))

	middleware.JSONResponse(w, http.StatusCreated, models.ElectionWithCandidates{
		Election:   e,
		Status:     h.svc.Status(e),
		Candidates: candidates,
	})
}

// validateElectionRequest trims the request in place and checks it
func validateElectionRequest(req *models.CreateElectionRequest, now time.Time) error {
	req.Question = strings.TrimSpace(req.Question)
	req.Description = strings.TrimSpace(req.Description)

	if req.Question == "" {
		return errors.New("question is required")
	}
	if req.EndTime.IsZero() {
		return errors.New("end_time is required")
	}
	if !req.EndTime.After(now) {
		return errors.New("end_time must be in the future")
	}
	if len(req.Candidates) < models.MinCandidates || len(req.Candidates) > models.MaxCandidates {
		return fmt.Errorf("between %d and %d candidates are required", models.MinCandidates, models.MaxCandidates)
	}

	seen := make(map[string]bool, len(req.Candidates))
	for i := range req.Candidates {
		c := &req.Candidates[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Bio = strings.TrimSpace(c.Bio)
		c.Position = strings.TrimSpace(c.Position)
		c.PhotoURL = strings.TrimSpace(c.PhotoURL)
		if c.Name == "" {
			return fmt.Errorf("candidate %d: name is required", i+1)
		}
		if seen[c.Name] {
			return fmt.Errorf("candidate name %q is duplicated", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func newCandidate(electionID string, in models.CandidateInput, now time.Time) models.Candidate {
	return models.Candidate{
		ID:         auth.NewID(),
		ElectionID: electionID,
		Name:       in.Name,
		Bio:        in.Bio,
		Position:   in.Position,
		PhotoURL:   in.PhotoURL,
		CreatedAt:  now,
	}
}

// ListElections handles GET /elections?kind=all|election|poll
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", models.KindAll, models.KindElection, models.KindPoll:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be all, election, or poll")
		return
	}

	summaries, err := h.store.ListElections(r.Context(), kind)
	if err != nil {
		slog.Error("failed to list elections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range summaries {
		summaries[i].Status = h.svc.Status(summaries[i].Election)
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadElection(w, r)
	if !ok {
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), e.ID, models.OrderByName)
	if err != nil {
		slog.Error("failed to list candidates", "error", err, "election_id", e.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   e,
		Status:     h.svc.Status(e),
		Candidates: candidates,
	})
}

// ListCandidates handles GET /elections/{id}/candidates?order=name|votes
func (h *ElectionHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	order := models.CandidateOrder(r.URL.Query().Get("order"))
	switch order {
	case "", models.OrderByName, models.OrderByVotes:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "order must be name or votes")
		return
	}

	e, ok := h.loadElection(w, r)
	if !ok {
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), e.ID, order)
	if err != nil {
		slog.Error("failed to list candidates", "error", err, "election_id", e.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// CloseElection handles POST /elections/{id}/close
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	e, err := h.svc.CloseElection(r.Context(), session, r.PathValue("id"))
	if err != nil {
		writeVotingError(w, err)
		return
	}

	candidates, err := h.store.ListCandidates(r.Context(), e.ID, models.OrderByName)
	if err != nil {
		slog.Error("failed to list candidates", "error", err, "election_id", e.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   e,
		Status:     models.StatusClosed,
		Candidates: candidates,
	})
}

// DeleteElection handles DELETE /elections/{id} (admins only)
// Candidates and votes are removed with it.
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}
	if !session.CanAdminister() {
		forbidden(w, "Only admins can delete elections")
		return
	}

	id := r.PathValue("id")
	err := h.store.DeleteElection(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete election", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete election")
		return
	}

	slog.Info("election deleted", "election_id", id, "by", session.WalletAddress)
	w.WriteHeader(http.StatusNoContent)
}

// ListVotes handles GET /elections/{id}/votes (admins and the creator)
func (h *ElectionHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	e, ok := h.loadElection(w, r)
	if !ok {
		return
	}
	if !session.CanManage(e) {
		forbidden(w, "Not allowed to view ballots for this election")
		return
	}

	records, err := h.store.ListVotesByElection(r.Context(), e.ID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "election_id", e.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// Reconcile handles POST /elections/{id}/reconcile (admins only)
// It recounts ballots and repairs any votes_count that drifted.
func (h *ElectionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}
	if !session.CanAdminister() {
		forbidden(w, "Only admins can reconcile tallies")
		return
	}

	id := r.PathValue("id")
	drift, err := h.store.ReconcileTallies(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to reconcile tallies", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reconcile")
		return
	}

	if len(drift) > 0 {
		slog.Warn("tally drift corrected", "election_id", id, "candidates", len(drift))
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReconcileResponse{
		ElectionID: id,
		Drift:      drift,
	})
}

// loadElection fetches the {id} election, writing 404 or 500 on failure
func (h *ElectionHandler) loadElection(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	return loadElection(w, r, h.store, r.PathValue("id"))
}

func loadElection(w http.ResponseWriter, r *http.Request, st *store.Store, id string) (models.Election, bool) {
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election id is required")
		return models.Election{}, false
	}

	e, err := st.GetElection(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ReasonErrorResponse(w, http.StatusNotFound, "Election not found", voting.Reason(voting.ErrElectionNotFound))
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to load election", "error", err, "election_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Election{}, false
	}
	return e, true
}
