// Package scoring derives per-player totals and leaderboards from raw throw cells.
//
// Everything here is a pure function of its inputs; nothing reads the store.
package scoring

import (
	"slices"
	"sort"

	"github.com/roach88/discman/internal/model"
)

// PlayerScore is one player's result over a course.
type PlayerScore struct {
	Player model.Player `json:"player"`

	// HoleScores maps hole number to number of throws.
	HoleScores map[int]int `json:"hole_scores"`

	// TotalScore is the sum of (throws - par) over all holes.
	// Negative is under par.
	TotalScore int `json:"total_score"`

	TotalThrows int `json:"total_throws"`
}

// ComputeScores returns one PlayerScore per player, in the order of players.
//
// Holes are visited in hole number order. A missing cell counts as par for
// that hole. The result is not ranked; use Rank.
func ComputeScores(players []model.Player, holes []model.Hole, cells []model.ThrowCell) []PlayerScore {
	ordered := slices.Clone(holes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].HoleNumber < ordered[j].HoleNumber
	})

	index := make(map[model.CellKey]int, len(cells))
	for _, c := range cells {
		index[c.Key()] = c.NumberOfThrows
	}

	scores := make([]PlayerScore, 0, len(players))
	for _, p := range players {
		ps := PlayerScore{
			Player:     p,
			HoleScores: make(map[int]int, len(ordered)),
		}

		for _, h := range ordered {
			throws, ok := index[model.CellKey{PlayerID: p.ID, HoleNumber: h.HoleNumber}]
			if !ok {
				throws = h.Par
			}
			ps.HoleScores[h.HoleNumber] = throws
			ps.TotalThrows += throws
			ps.TotalScore += throws - h.Par
		}

		scores = append(scores, ps)
	}

	return scores
}

// Rank returns a copy of scores sorted by TotalScore ascending.
// Ties keep their input order.
func Rank(scores []PlayerScore) []PlayerScore {
	ranked := slices.Clone(scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore < ranked[j].TotalScore
	})
	return ranked
}

// Leaderboard computes and ranks in one step.
func Leaderboard(players []model.Player, holes []model.Hole, cells []model.ThrowCell) []PlayerScore {
	return Rank(ComputeScores(players, holes, cells))
}
