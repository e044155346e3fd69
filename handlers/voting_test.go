// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/votechain/auth"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/testutil"
	"github.com/danielhkuo/votechain/voting"
)

func submitVote(h *VotingHandler, electionID string, body interface{}, p *models.Profile) *httptest.ResponseRecorder {
	var req *http.Request
	if s, ok := body.(string); ok {
		req = httptest.NewRequest("POST", "/elections/"+electionID+"/votes", bytes.NewReader([]byte(s)))
	} else {
		req = testutil.MakeRequest("POST", "/elections/"+electionID+"/votes", body, nil)
	}
	req.SetPathValue("id", electionID)
	if p != nil {
		req = asProfile(req, *p)
	}
	w := httptest.NewRecorder()
	h.SubmitVote(w, req)
	return w
}

func TestSubmitVote(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.st, env.svc, env.cfg)

	admin := testutil.CreateTestProfile(t, env.conn, "admin")
	openID, openCandidates := env.openElection(t, admin, "Alice", "Bob")
	closedID, closedCandidates := env.closedElection(t, admin, "Carol", "Dan")
	_, foreignCandidates := env.openElection(t, admin, "Eve", "Finn")

	alreadyVoted := testutil.CreateTestProfile(t, env.conn, "user")
	testutil.CastTestVote(t, env.conn, openID, alreadyVoted.ID, openCandidates[0])

	tests := []struct {
		name           string
		voter          bool
		profile        *models.Profile
		electionID     string
		body           interface{}
		expectedStatus int
		reason         string
	}{
		{
			name:           "anonymous",
			electionID:     openID,
			body:           models.SubmitVoteRequest{CandidateID: openCandidates[0]},
			expectedStatus: http.StatusUnauthorized,
			reason:         "not_authenticated",
		},
		{
			name:           "no selection",
			voter:          true,
			electionID:     openID,
			body:           models.SubmitVoteRequest{CandidateID: "  "},
			expectedStatus: http.StatusBadRequest,
			reason:         "no_selection",
		},
		{
			name:           "unknown election",
			voter:          true,
			electionID:     "missing",
			body:           models.SubmitVoteRequest{CandidateID: openCandidates[0]},
			expectedStatus: http.StatusNotFound,
			reason:         "election_not_found",
		},
		{
			name:           "closed election",
			voter:          true,
			electionID:     closedID,
			body:           models.SubmitVoteRequest{CandidateID: closedCandidates[0]},
			expectedStatus: http.StatusConflict,
			reason:         "election_closed",
		},
		{
			name:           "already voted",
			profile:        &alreadyVoted,
			electionID:     openID,
			body:           models.SubmitVoteRequest{CandidateID: openCandidates[1]},
			expectedStatus: http.StatusConflict,
			reason:         "already_voted",
		},
		{
			name:           "candidate from another election",
			voter:          true,
			electionID:     openID,
			body:           models.SubmitVoteRequest{CandidateID: foreignCandidates[0]},
			expectedStatus: http.StatusBadRequest,
			reason:         "candidate_not_found",
		},
		{
			name:           "unknown candidate",
			voter:          true,
			electionID:     openID,
			body:           models.SubmitVoteRequest{CandidateID: "missing"},
			expectedStatus: http.StatusBadRequest,
			reason:         "candidate_not_found",
		},
		{
			name:           "invalid JSON",
			voter:          true,
			electionID:     openID,
			body:           "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			if tt.voter {
				fresh := testutil.CreateTestProfile(t, env.conn, "user")
				p = &fresh
			}

			w := submitVote(handler, tt.electionID, tt.body, p)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, errorReason(t, w))
			}
		})
	}

	// None of the rejected submissions touched a tally
	assert.Equal(t, 1, testutil.VotesCount(t, env.conn, openCandidates[0]))
	assert.Equal(t, 0, testutil.VotesCount(t, env.conn, openCandidates[1]))
	assert.Equal(t, 0, testutil.VotesCount(t, env.conn, closedCandidates[0]))
	assert.Equal(t, 0, testutil.VotesCount(t, env.conn, foreignCandidates[0]))
}

func TestSubmitVote_RecordsBallot(t *testing.T) {
	for _, mode := range []voting.WriteMode{voting.ModeAtomic, voting.ModeSequential} {
		t.Run(string(mode), func(t *testing.T) {
			env := newTestEnv(t)
			svc := voting.NewService(env.st, voting.Config{Mode: mode})
			handler := NewVotingHandler(env.st, svc, env.cfg)

			admin := testutil.CreateTestProfile(t, env.conn, "admin")
			voter := testutil.CreateTestProfile(t, env.conn, "user")
			electionID, ids := env.openElection(t, admin, "Alice", "Bob")

			req := testutil.MakeRequest("POST", "/elections/"+electionID+"/votes",
				models.SubmitVoteRequest{CandidateID: ids[1]},
				map[string]string{"User-Agent": strings.Repeat("x", 400)})
			req.SetPathValue("id", electionID)
			w := httptest.NewRecorder()
			handler.SubmitVote(w, asProfile(req, voter))

			testutil.AssertStatus(t, w, http.StatusCreated)
			var resp models.SubmitVoteResponse
			testutil.AssertJSON(t, w, &resp)
			require.NotEmpty(t, resp.VoteID)

			assert.Equal(t, 0, testutil.VotesCount(t, env.conn, ids[0]))
			assert.Equal(t, 1, testutil.VotesCount(t, env.conn, ids[1]))

			var ipHash, userAgent string
			err := env.conn.QueryRow(`SELECT ip_hash, user_agent FROM vote WHERE id = ?`, resp.VoteID).Scan(&ipHash, &userAgent)
			require.NoError(t, err)
			assert.Equal(t, auth.HashIP("192.0.2.1", env.cfg.SessionSecret), ipHash)
			assert.Len(t, userAgent, maxUserAgent)

			// Retrying for the other candidate is rejected and changes nothing
			w = submitVote(handler, electionID, models.SubmitVoteRequest{CandidateID: ids[0]}, &voter)
			testutil.AssertStatus(t, w, http.StatusConflict)
			assert.Equal(t, 0, testutil.VotesCount(t, env.conn, ids[0]))
			assert.Equal(t, 1, testutil.VotesCount(t, env.conn, ids[1]))
		})
	}
}

func TestGetMyVote(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.st, env.svc, env.cfg)

	admin := testutil.CreateTestProfile(t, env.conn, "admin")
	voter := testutil.CreateTestProfile(t, env.conn, "user")
	electionID, ids := env.openElection(t, admin, "Alice", "Bob")

	myVote := func(id string, p *models.Profile) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/elections/"+id+"/my-vote", nil)
		req.SetPathValue("id", id)
		if p != nil {
			req = asProfile(req, *p)
		}
		w := httptest.NewRecorder()
		handler.GetMyVote(w, req)
		return w
	}

	t.Run("anonymous has not voted", func(t *testing.T) {
		w := myVote(electionID, nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.VoteStateResponse
		testutil.AssertJSON(t, w, &resp)
		assert.False(t, resp.Voted)
	})

	t.Run("before voting", func(t *testing.T) {
		w := myVote(electionID, &voter)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.VoteStateResponse
		testutil.AssertJSON(t, w, &resp)
		assert.False(t, resp.Voted)
		assert.Empty(t, resp.CandidateID)
	})

	t.Run("after voting", func(t *testing.T) {
		w := submitVote(handler, electionID, models.SubmitVoteRequest{CandidateID: ids[0]}, &voter)
		testutil.AssertStatus(t, w, http.StatusCreated)

		w = myVote(electionID, &voter)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.VoteStateResponse
		testutil.AssertJSON(t, w, &resp)
		assert.True(t, resp.Voted)
		assert.Equal(t, ids[0], resp.CandidateID)
	})

	t.Run("unknown election", func(t *testing.T) {
		w := myVote("missing", &voter)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
