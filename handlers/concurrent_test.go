// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/votechain/models"
	"github.com/danielhkuo/votechain/testutil"
	"github.com/danielhkuo/votechain/voting"
)

// TestConcurrentDoubleSubmit fires the same voter's ballot from many
// goroutines at once. Exactly one may land; the rest are already_voted.
func TestConcurrentDoubleSubmit(t *testing.T) {
	for _, mode := range []voting.WriteMode{voting.ModeAtomic, voting.ModeSequential} {
		t.Run(string(mode), func(t *testing.T) {
			env := newTestEnv(t)
			handler := NewVotingHandler(env.st, voting.NewService(env.st, voting.Config{Mode: mode}), env.cfg)

			admin := testutil.CreateTestProfile(t, env.conn, "admin")
			voter := testutil.CreateTestProfile(t, env.conn, "user")
			electionID, ids := env.openElection(t, admin, "Alice", "Bob")

			const attempts = 10
			var created, conflicts, other atomic.Int32
			var wg sync.WaitGroup

			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()

					w := submitVote(handler, electionID, models.SubmitVoteRequest{CandidateID: ids[i%2]}, &voter)
					switch w.Code {
					case http.StatusCreated:
						created.Add(1)
					case http.StatusConflict:
						conflicts.Add(1)
					default:
						other.Add(1)
						t.Logf("unexpected status %d: %s", w.Code, w.Body.String())
					}
				}(i)
			}

			wg.Wait()

			if created.Load() != 1 {
				t.Errorf("Expected exactly 1 accepted vote, got %d", created.Load())
			}
			if conflicts.Load() != attempts-1 {
				t.Errorf("Expected %d conflicts, got %d", attempts-1, conflicts.Load())
			}
			if other.Load() != 0 {
				t.Errorf("Expected no other statuses, got %d", other.Load())
			}

			total := testutil.VotesCount(t, env.conn, ids[0]) + testutil.VotesCount(t, env.conn, ids[1])
			if total != 1 {
				t.Errorf("Expected tallies to sum to 1, got %d", total)
			}

			ballots, err := env.st.CountVotes(context.Background(), electionID)
			if err != nil {
				t.Fatalf("Failed to count votes: %v", err)
			}
			if ballots != 1 {
				t.Errorf("Expected 1 ballot, got %d", ballots)
			}
		})
	}
}

// TestConcurrentVoters verifies that many distinct voters voting at once
// all land and the tallies match the ballots
func TestConcurrentVoters(t *testing.T) {
	env := newTestEnv(t)
	handler := NewVotingHandler(env.st, env.svc, env.cfg)

	admin := testutil.CreateTestProfile(t, env.conn, "admin")
	electionID, ids := env.openElection(t, admin, "Alice", "Bob", "Cleo")

	numVoters := 12
	voters := make([]models.Profile, numVoters)
	for i := range voters {
		voters[i] = testutil.CreateTestProfile(t, env.conn, "user")
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			w := submitVote(handler, electionID, models.SubmitVoteRequest{CandidateID: ids[i%3]}, &voters[i])
			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else {
				t.Logf("voter %d got %d: %s", i, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	for _, id := range ids {
		if got := testutil.VotesCount(t, env.conn, id); got != numVoters/3 {
			t.Errorf("Expected %d votes for %s, got %d", numVoters/3, id, got)
		}
	}

	drift, err := env.st.ReconcileTallies(context.Background(), electionID)
	if err != nil {
		t.Fatalf("Failed to reconcile: %v", err)
	}
	if len(drift) != 0 {
		t.Errorf("Expected no drift, got %+v", drift)
	}
}
