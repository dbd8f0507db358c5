package services

import (
	"math"

	"github.com/campora/campus-portal/internal/entity"
)

// Tally holds per-option vote counts for one poll.
type Tally struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// TallyVotes folds the current vote set into per-option counts. The vote set
// carries at most one row per student (the storage upsert key guarantees it),
// so a changed vote is counted once, for the latest choice. The fold is a
// pure function of the set: order of the input rows does not matter.
func TallyVotes(votes []entity.Vote) Tally {
	counts := make(map[string]int, len(votes))
	for _, vote := range votes {
		counts[vote.OptionID]++
	}
	return Tally{Counts: counts, Total: len(votes)}
}

// Percent returns the option's share of the total, rounded to the nearest
// whole percent. Zero when nobody has voted yet.
func (t Tally) Percent(optionID string) int {
	if t.Total == 0 {
		return 0
	}
	return int(math.Round(float64(t.Counts[optionID]) / float64(t.Total) * 100))
}
