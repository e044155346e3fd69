// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
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

type SessionHandler struct {
	store  *store.Store
	cfg    cliparse.Config
	signer *auth.SessionSigner
}

func NewSessionHandler(st *store.Store, cfg cliparse.Config, signer *auth.SessionSigner) *SessionHandler {
	return &SessionHandler{store: st, cfg: cfg, signer: signer}
}

// Connect handles POST /wallet/connect
// The body is optional; without a wallet_address a simulated wallet is generated.
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectWalletRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" {
		generated, err := auth.GenerateWalletAddress()
		if err != nil {
			slog.Error("failed to generate wallet", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to connect wallet")
			return
		}
		wallet = generated
	}

	superAdmin := strings.EqualFold(wallet, h.cfg.SuperAdminWallet)
	if !auth.IsWalletAddress(wallet) && !superAdmin {
		middleware.ErrorResponse(w, http.StatusBadRequest, "wallet_address must be 0x followed by 40 hex characters")
		return
	}

	ctx := r.Context()
	profile, err := h.store.UpsertProfile(ctx, wallet, superAdmin)
	if err != nil {
		slog.Error("failed to upsert profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to connect wallet")
		return
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	ws := models.WalletSession{
		ID:        auth.NewID(),
		ProfileID: profile.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(h.cfg.SessionTTL),
	}
	if err := h.store.CreateSession(ctx, ws); err != nil {
		slog.Error("failed to create session", "error", err, "profile_id", profile.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to connect wallet")
		return
	}

	token, err := h.signer.Issue(auth.SessionClaims{
		SessionID:     ws.ID,
		ProfileID:     profile.ID,
		WalletAddress: profile.WalletAddress,
		IssuedAt:      ws.CreatedAt,
		ExpiresAt:     ws.ExpiresAt,
	})
	if err != nil {
		slog.Error("failed to sign session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to connect wallet")
		return
	}

	slog.Info("wallet connected", "profile_id", profile.ID, "super_admin", profile.IsSuperAdmin)

	middleware.JSONResponse(w, http.StatusOK, models.ConnectWalletResponse{
		Token:     token,
		ExpiresAt: ws.ExpiresAt,
		Profile:   profile,
	})
}

// Disconnect handles POST /wallet/disconnect
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	if err := h.store.RevokeSession(r.Context(), session.SessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Error("failed to revoke session", "error", err, "session_id", session.SessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to disconnect")
		return
	}

	slog.Info("wallet disconnected", "profile_id", session.ProfileID)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Disconnected",
	})
}

// GetMe handles GET /me
func (h *SessionHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	profile, err := h.store.GetProfile(r.Context(), session.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		slog.Error("failed to load profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// GetMyVotes handles GET /me/votes
func (h *SessionHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	votes, err := h.store.ListVotesByVoter(r.Context(), session.ProfileID)
	if err != nil {
		slog.Error("failed to list votes", "error", err, "profile_id", session.ProfileID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, votes)
}

// SetCollegeEmail handles POST /me/college-email
// Any well-formed address is stored; only .edu addresses count as verified.
func (h *SessionHandler) SetCollegeEmail(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		unauthenticated(w)
		return
	}

	var req models.CollegeEmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	email := strings.TrimSpace(req.Email)
	if !auth.IsEmailAddress(email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email must be a valid address")
		return
	}

	verified := auth.IsCollegeEmail(email)
	if _, err := h.store.SetCollegeEmail(r.Context(), session.ProfileID, email, verified); err != nil {
		slog.Error("failed to store college email", "error", err, "profile_id", session.ProfileID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save email")
		return
	}

	message := "College email verified"
	if !verified {
		message = "Email saved but not verified; use an .edu address"
	}

	middleware.JSONResponse(w, http.StatusOK, models.CollegeEmailResponse{
		Verified: verified,
		Message:  message,
	})
}
