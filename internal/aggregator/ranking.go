package aggregator

import (
	"sort"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// TopN is the length of the season-wide player rankings.
const TopN = 15

// CountAppearances counts, for each player, the matches they appear in as
// winner or loser. Results are sorted by count descending; equal counts are
// ordered alphabetically. n <= 0 returns every player.
func CountAppearances(matches []model.MatchRecord, n int) []model.TopEntry {
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.Winner]++
		if m.Loser != m.Winner {
			counts[m.Loser]++
		}
	}
	return rank(counts, n)
}

// CountWins counts match wins per player, sorted as CountAppearances.
func CountWins(matches []model.MatchRecord, n int) []model.TopEntry {
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.Winner]++
	}
	return rank(counts, n)
}

func rank(counts map[string]int, n int) []model.TopEntry {
	out := make([]model.TopEntry, 0, len(counts))
	for p, c := range counts {
		if p == "" {
			continue
		}
		out = append(out, model.TopEntry{Player: p, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Player < out[j].Player
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
