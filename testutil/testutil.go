// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/db"
	"github.com/danielhkuo/votechain/models"
)

// TestSessionSecret signs session tokens in tests
const TestSessionSecret = "test-session-secret-0123456789"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// The file lives in t.TempDir and disappears with the test.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "votechain_test.db")
	conn, _, err := db.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      "file:votechain_test.db",
		DatabaseType:     "sqlite",
		SessionSecret:    TestSessionSecret,
		SessionTTL:       time.Hour,
		SuperAdminWallet: cliparse.DefaultSuperAdminWallet,
		VoteMode:         cliparse.VoteModeAtomic,
		VoteRateLimit:    1000,
		VoteRateBurst:    1000,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// CreateTestProfile inserts a profile with a random wallet.
// role is "user", "admin", or "super_admin".
func CreateTestProfile(t *testing.T, conn *sql.DB, role string) models.Profile {
	t.Helper()

	wallet, err := auth.GenerateWalletAddress()
	if err != nil {
		t.Fatalf("Failed to generate wallet: %v", err)
	}

	p := models.Profile{
		ID:            auth.NewID(),
		WalletAddress: wallet,
		IsAdmin:       role == "admin" || role == "super_admin",
		IsSuperAdmin:  role == "super_admin",
		CreatedAt:     time.Now().UTC().Truncate(time.Millisecond),
	}

	_, err = conn.Exec(`
		INSERT INTO profile (id, wallet_address, is_admin, is_super_admin, college_verified, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.WalletAddress, p.IsAdmin, p.IsSuperAdmin, false, p.CreatedAt.UnixMilli())
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return p
}

// CreateTestSession stores a wallet session for the profile and returns its bearer token
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, p models.Profile) string {
	t.Helper()

	now := time.Now().UTC()
	sessionID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO wallet_session (id, profile_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, p.ID, now.UnixMilli(), now.Add(cfg.SessionTTL).UnixMilli())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	token, err := auth.NewSessionSigner(cfg.SessionSecret, nil).Issue(auth.SessionClaims{
		SessionID:     sessionID,
		ProfileID:     p.ID,
		WalletAddress: p.WalletAddress,
		IssuedAt:      now,
		ExpiresAt:     now.Add(cfg.SessionTTL),
	})
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}

	return token
}

// SessionFor builds the in-memory session for a profile
func SessionFor(p models.Profile) *models.Session {
	return &models.Session{
		SessionID:       auth.NewID(),
		ProfileID:       p.ID,
		WalletAddress:   p.WalletAddress,
		IsAdmin:         p.IsAdmin,
		IsSuperAdmin:    p.IsSuperAdmin,
		CollegeVerified: p.CollegeVerified,
	}
}

// CreateTestElection inserts an election ending at endTime and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, creator string, isElection bool, endTime time.Time) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO election (id, question, description, creator, is_election, created_at, end_time)
		VALUES (?, 'Test Election', 'A test election', ?, ?, ?, ?)
	`, id, creator, isElection, time.Now().UnixMilli(), endTime.UnixMilli())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return id
}

// AddTestCandidate adds a candidate to an election and returns the candidate ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, bio, position, photo_url, verified, votes_count, created_at)
		VALUES (?, ?, ?, '', '', '', ?, 0, ?)
	`, id, electionID, name, false, time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return id
}

// CastTestVote records a ballot and bumps the candidate's tally
func CastTestVote(t *testing.T, conn *sql.DB, electionID, voterID, candidateID string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO vote (id, election_id, voter_id, candidate_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, electionID, voterID, candidateID, time.Now().UnixMilli())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	_, err = conn.Exec(`UPDATE candidate SET votes_count = votes_count + 1 WHERE id = ?`, candidateID)
	if err != nil {
		t.Fatalf("Failed to bump test tally: %v", err)
	}

	return id
}

// VotesCount reads a candidate's stored tally
func VotesCount(t *testing.T, conn *sql.DB, candidateID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT votes_count FROM candidate WHERE id = ?`, candidateID).Scan(&n); err != nil {
		t.Fatalf("Failed to read votes_count: %v", err)
	}
	return n
}

// BearerHeader returns the Authorization header for a session token
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
