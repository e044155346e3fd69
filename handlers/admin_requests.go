// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
)

type AdminRequestHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewAdminRequestHandler(st *store.Store, cfg cliparse.Config) *AdminRequestHandler {
	return &AdminRequestHandler{store: st, cfg: cfg}
}

// Submit handles POST /admin-requests
func (h *AdminRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	// Body is optional
	var req models.AdminAccessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	ar := models.AdminRequest{
		ID:            auth.NewID(),
		UserID:        session.ProfileID,
		WalletAddress: session.WalletAddress,
		Status:        models.RequestPending,
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}
	if faceID := strings.TrimSpace(req.FaceID); faceID != "" {
		ar.FaceID = &faceID
	}
	ar.UpdatedAt = ar.CreatedAt

	if err := h.store.CreateAdminRequest(r.Context(), ar); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			middleware.ErrorResponse(w, http.StatusConflict, "Already an admin or a request is pending")
		case errors.Is(err, store.ErrNotFound):
			unauthenticated(w)
		default:
			slog.Error("failed to create admin request", "error", err, "profile_id", session.ProfileID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit request")
		}
		return
	}

	slog.Info("admin access requested", "request_id", ar.ID, "profile_id", ar.UserID)

	middleware.JSONResponse(w, http.StatusCreated, ar)
}

// List handles GET /admin-requests?status=
func (h *AdminRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.requireSuperAdmin(w, r) {
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "status must be pending, approved, or rejected")
		return
	}

	requests, err := h.store.ListAdminRequests(r.Context(), status)
	if err != nil {
		slog.Error("failed to list admin requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, requests)
}

// Get handles GET /admin-requests/{id}
// Visible to super admins and to the user who filed it.
func (h *AdminRequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	id := r.PathValue("id")
	ar, err := h.store.GetAdminRequest(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Admin request not found")
		return
	}
	if err != nil {
		slog.Error("failed to load admin request", "error", err, "request_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !session.IsSuperAdmin && ar.UserID != session.ProfileID {
		forbidden(w, "Not allowed to view this request")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ar)
}

// Approve handles POST /admin-requests/{id}/approve
func (h *AdminRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.store.ApproveAdminRequest)
}

// Reject handles POST /admin-requests/{id}/reject
func (h *AdminRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.store.RejectAdminRequest)
}

func (h *AdminRequestHandler) decide(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id string) (models.AdminRequest, error)) {
	if !h.requireSuperAdmin(w, r) {
		return
	}

	id := r.PathValue("id")
	ar, err := apply(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Admin request not found")
		case errors.Is(err, store.ErrConflict):
			middleware.ErrorResponse(w, http.StatusConflict, "Admin request has already been decided")
		default:
			slog.Error("failed to decide admin request", "error", err, "request_id", id)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		}
		return
	}

	slog.Info("admin request decided", "request_id", ar.ID, "profile_id", ar.UserID, "status", ar.Status)

	middleware.JSONResponse(w, http.StatusOK, ar)
}

func (h *AdminRequestHandler) requireSuperAdmin(w http.ResponseWriter, r *http.Request) bool {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return false
	}
	if !session.IsSuperAdmin {
		forbidden(w, "Super admin access required")
		return false
	}
	return true
}
