// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/votechain/models"
)

// CandidateResult is one candidate's share of the vote
type CandidateResult struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Votes      int    `json:"votes"`
	Percentage int    `json:"percentage"`
}

// Results is the projection of an election's tallies
type Results struct {
	ElectionID   string            `json:"election_id"`
	Status       string            `json:"status"`
	EndTime      time.Time         `json:"end_time"`
	TotalVotes   int               `json:"total_votes"`
	PerCandidate []CandidateResult `json:"per_candidate"`
	Ranking      []string          `json:"ranking"`
}

// Tally computes totals, rounded percentages, and a ranking from stored tallies.
// PerCandidate keeps input order. Ranking is by votes descending; ties keep
// input order.
func Tally(candidates []models.Candidate) Results {
	res := Results{
		PerCandidate: make([]CandidateResult, 0, len(candidates)),
		Ranking:      make([]string, 0, len(candidates)),
	}

	for _, c := range candidates {
		res.TotalVotes += c.VotesCount
	}

	for _, c := range candidates {
		res.PerCandidate = append(res.PerCandidate, CandidateResult{
			ID:         c.ID,
			Name:       c.Name,
			Votes:      c.VotesCount,
			Percentage: percentage(c.VotesCount, res.TotalVotes),
		})
	}

	ranked := make([]CandidateResult, len(res.PerCandidate))
	copy(ranked, res.PerCandidate)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})
	for _, r := range ranked {
		res.Ranking = append(res.Ranking, r.ID)
	}

	return res
}

func percentage(votes, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}

// GetResults tallies the election's candidates, listed by name, so tied
// candidates rank alphabetically.
func (s *Service) GetResults(ctx context.Context, electionID string) (Results, error) {
	e, err := s.election(ctx, electionID)
	if err != nil {
		return Results{}, err
	}

	candidates, err := s.backend.ListCandidates(ctx, e.ID, models.OrderByName)
	if err != nil {
		return Results{}, unavailable(err)
	}

	res := Tally(candidates)
	res.ElectionID = e.ID
	res.Status = StatusAt(e, s.now())
	res.EndTime = e.EndTime
	return res, nil
}
