// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/votechain/db"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/testutil"
)

func setupRouter(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	st := store.New(conn, db.SQLite)
	return NewRouter(st, testutil.GetTestConfig()), st
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "votechain API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := setupRouter(t)

	// Routes must reach a handler; 404 from a missing record is fine,
	// but 405 means the method/path pair is not registered.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/wallet/connect"},
		{"POST", "/wallet/disconnect"},
		{"GET", "/me"},
		{"GET", "/me/votes"},
		{"POST", "/me/college-email"},

		{"POST", "/elections"},
		{"POST", "/polls"},
		{"GET", "/elections"},
		{"GET", "/elections/test-id"},
		{"GET", "/elections/test-id/candidates"},
		{"POST", "/elections/test-id/close"},
		{"DELETE", "/elections/test-id"},
		{"GET", "/elections/test-id/votes"},
		{"POST", "/elections/test-id/reconcile"},

		{"POST", "/elections/test-id/candidates"},
		{"PUT", "/candidates/test-id"},
		{"POST", "/candidates/test-id/verify"},
		{"DELETE", "/candidates/test-id"},

		{"POST", "/admin-requests"},
		{"GET", "/admin-requests"},
		{"GET", "/admin-requests/test-id"},
		{"POST", "/admin-requests/test-id/approve"},
		{"POST", "/admin-requests/test-id/reject"},

		{"POST", "/elections/test-id/votes"},
		{"GET", "/elections/test-id/my-vote"},
		{"GET", "/elections/test-id/results"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code, "route not registered")
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := setupRouter(t)

	req := httptest.NewRequest("PATCH", "/elections/test-id/votes", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	mux, _ := setupRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{"GET", "/me"},
		{"POST", "/polls"},
		{"POST", "/elections"},
		{"POST", "/admin-requests"},
		{"DELETE", "/candidates/test-id"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			req := httptest.NewRequest(p.method, p.path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			assert.Equal(t, "not_authenticated", resp.Reason)
		})
	}
}

func TestAnonymousVoteIsRejectedByService(t *testing.T) {
	mux, _ := setupRouter(t)

	req := testutil.MakeRequest("POST", "/elections/test-id/votes", models.SubmitVoteRequest{CandidateID: "c1"}, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusUnauthorized)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	assert.Equal(t, "not_authenticated", resp.Reason)
}

func TestConnectThenMe(t *testing.T) {
	mux, _ := setupRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/wallet/connect", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var conn models.ConnectWalletResponse
	testutil.AssertJSON(t, w, &conn)
	require.NotEmpty(t, conn.Token)
	assert.True(t, conn.ExpiresAt.After(time.Now()))

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/me", nil, testutil.BearerHeader(conn.Token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var me models.Profile
	testutil.AssertJSON(t, w, &me)
	assert.Equal(t, conn.Profile.ID, me.ID)
	assert.Equal(t, conn.Profile.WalletAddress, me.WalletAddress)

	// Revoked sessions stop working
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/wallet/disconnect", nil, testutil.BearerHeader(conn.Token)))
	assert.Less(t, w.Code, 300)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/me", nil, testutil.BearerHeader(conn.Token)))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}
