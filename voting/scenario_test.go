// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/votechain/db"
	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/store"
	"github.com/danielhkuo/votechain/testutil"
	"github.com/danielhkuo/votechain/voting"
)

func TestScenario_VoteThenRetry(t *testing.T) {
	for _, mode := range []voting.WriteMode{voting.ModeAtomic, voting.ModeSequential} {
		t.Run(string(mode), func(t *testing.T) {
			conn := testutil.SetupTestDB(t)
			defer conn.Close()
			ctx := context.Background()
			svc := voting.NewService(store.New(conn, db.SQLite), voting.Config{Mode: mode})

			eid := testutil.CreateTestElection(t, conn, "0xcreator", true, time.Now().Add(time.Hour))
			a := testutil.AddTestCandidate(t, conn, eid, "A")
			b := testutil.AddTestCandidate(t, conn, eid, "B")
			session := testutil.SessionFor(testutil.CreateTestProfile(t, conn, "user"))

			_, err := svc.SubmitVote(ctx, session, eid, a, voting.BallotMeta{})
			require.NoError(t, err)

			res, err := svc.GetResults(ctx, eid)
			require.NoError(t, err)
			assert.Equal(t, 1, res.TotalVotes)
			assert.Equal(t, []voting.CandidateResult{
				{ID: a, Name: "A", Votes: 1, Percentage: 100},
				{ID: b, Name: "B", Votes: 0, Percentage: 0},
			}, res.PerCandidate)
			assert.Equal(t, models.StatusOpen, res.Status)

			_, err = svc.SubmitVote(ctx, session, eid, b, voting.BallotMeta{})
			assert.ErrorIs(t, err, voting.ErrAlreadyVoted)

			again, err := svc.GetResults(ctx, eid)
			require.NoError(t, err)
			assert.Equal(t, res, again, "results unchanged after rejected retry")
		})
	}
}

func TestScenario_ClosedElection(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	ctx := context.Background()
	svc := voting.NewService(store.New(conn, db.SQLite), voting.Config{})

	eid := testutil.CreateTestElection(t, conn, "0xcreator", true, time.Now().Add(-time.Hour))
	a := testutil.AddTestCandidate(t, conn, eid, "A")
	b := testutil.AddTestCandidate(t, conn, eid, "B")
	for i := 0; i < 3; i++ {
		testutil.CastTestVote(t, conn, eid, testutil.CreateTestProfile(t, conn, "user").ID, a)
	}
	for i := 0; i < 7; i++ {
		testutil.CastTestVote(t, conn, eid, testutil.CreateTestProfile(t, conn, "user").ID, b)
	}

	res, err := svc.GetResults(ctx, eid)
	require.NoError(t, err)
	assert.Equal(t, 10, res.TotalVotes)
	assert.Equal(t, 30, res.PerCandidate[0].Percentage)
	assert.Equal(t, 70, res.PerCandidate[1].Percentage)
	assert.Equal(t, []string{b, a}, res.Ranking)
	assert.Equal(t, models.StatusClosed, res.Status)

	late := testutil.SessionFor(testutil.CreateTestProfile(t, conn, "user"))
	for _, c := range []string{a, b, "missing"} {
		_, err := svc.SubmitVote(ctx, late, eid, c, voting.BallotMeta{})
		assert.ErrorIs(t, err, voting.ErrElectionClosed)
	}
}

func TestScenario_TallyDriftRepaired(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	ctx := context.Background()
	st := store.New(conn, db.SQLite)
	svc := voting.NewService(st, voting.Config{Mode: voting.ModeSequential})

	eid := testutil.CreateTestElection(t, conn, "0xcreator", true, time.Now().Add(time.Hour))
	a := testutil.AddTestCandidate(t, conn, eid, "A")
	session := testutil.SessionFor(testutil.CreateTestProfile(t, conn, "user"))

	// Break the increment half of a sequential write
	_, err := conn.Exec(`
		CREATE TRIGGER block_tally BEFORE UPDATE OF votes_count ON candidate
		BEGIN SELECT RAISE(ABORT, 'tally locked'); END
	`)
	require.NoError(t, err)

	_, err = svc.SubmitVote(ctx, session, eid, a, voting.BallotMeta{})
	require.ErrorIs(t, err, voting.ErrTallyUpdateFailed)
	assert.Equal(t, 0, testutil.VotesCount(t, conn, a))

	_, err = conn.Exec(`DROP TRIGGER block_tally`)
	require.NoError(t, err)

	drift, err := st.ReconcileTallies(ctx, eid)
	require.NoError(t, err)
	assert.Equal(t, []models.TallyDrift{{CandidateID: a, Stored: 0, Counted: 1}}, drift)

	res, err := svc.GetResults(ctx, eid)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalVotes)
}
