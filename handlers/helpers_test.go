// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/votechain/cliparse"
	"github.com/danielhkuo/votechain/db"
	"github.com/danielhkuo/votechain/middleware"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/testutil"
	"github.com/danielhkuo/votechain/voting"
)

// testEnv bundles a fresh database with the services handlers depend on
type testEnv struct {
	conn *sql.DB
	st   *store.Store
	cfg  cliparse.Config
	svc  *voting.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	cfg := testutil.GetTestConfig()
	st := store.New(conn, db.SQLite)
	return &testEnv{
		conn: conn,
		st:   st,
		cfg:  cfg,
		svc:  voting.NewService(st, voting.Config{Mode: voting.WriteMode(cfg.VoteMode)}),
	}
}

// openElection creates an election that ends in an hour, with the named candidates
func (env *testEnv) openElection(t *testing.T, creator models.Profile, names ...string) (string, []string) {
	t.Helper()
	return env.electionEnding(t, creator, time.Now().Add(time.Hour), names...)
}

// closedElection creates an election that ended an hour ago
func (env *testEnv) closedElection(t *testing.T, creator models.Profile, names ...string) (string, []string) {
	t.Helper()
	return env.electionEnding(t, creator, time.Now().Add(-time.Hour), names...)
}

func (env *testEnv) electionEnding(t *testing.T, creator models.Profile, end time.Time, names ...string) (string, []string) {
	t.Helper()
	electionID := testutil.CreateTestElection(t, env.conn, creator.WalletAddress, true, end)
	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, testutil.AddTestCandidate(t, env.conn, electionID, name))
	}
	return electionID, ids
}

// asProfile attaches p's session to the request, as RequireSession would
func asProfile(req *http.Request, p models.Profile) *http.Request {
	return req.WithContext(middleware.WithSession(req.Context(), testutil.SessionFor(p)))
}

func errorReason(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.Reason
}
