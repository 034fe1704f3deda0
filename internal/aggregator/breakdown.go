package aggregator

import (
	"fmt"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// GroupBy selects the column a breakdown groups on.
type GroupBy int

const (
	BySurface GroupBy = iota
	ByTournament
	ByCategory
)

func (g GroupBy) String() string {
	switch g {
	case BySurface:
		return "surface"
	case ByTournament:
		return "tournament"
	case ByCategory:
		return "category"
	default:
		return fmt.Sprintf("GroupBy(%d)", int(g))
	}
}

func (g GroupBy) key(r model.PlayerMatchRow) string {
	switch g {
	case ByTournament:
		return r.Tournament
	case ByCategory:
		return r.Category
	default:
		return r.Surface
	}
}

// Breakdown groups each requested player's rows by surface, tournament or
// category. Only groups the player actually has rows in are emitted, in
// order of first appearance. No minimum-match threshold is applied.
//
// ByCategory returns ErrMissingColumn when the source has no category column.
func Breakdown(pt model.PlayerTable, players []string, by GroupBy) ([]model.GroupStat, error) {
	if by == ByCategory && pt.Schema.CategoryColumn == "" {
		return nil, fmt.Errorf("%s breakdown: %w", by, ErrMissingColumn)
	}
	var out []model.GroupStat
	for _, p := range distinct(players) {
		out = append(out, groupRows(p, pt.For(p), by)...)
	}
	return out, nil
}

func groupRows(player string, rows []model.PlayerMatchRow, by GroupBy) []model.GroupStat {
	idx := make(map[string]int)
	var out []model.GroupStat
	for _, r := range rows {
		k := by.key(r)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, model.GroupStat{Player: player, Key: k})
		}
		g := &out[i]
		g.Matches++
		if r.Won() {
			g.Wins++
		}
		if r.IsTitle() {
			g.Titles++
		}
	}
	return out
}

// TitlesBySurface counts won finals per surface for one player's rows.
// Surfaces without a title are not emitted.
func TitlesBySurface(rows []model.PlayerMatchRow) []model.KeyCount {
	idx := make(map[string]int)
	var out []model.KeyCount
	for _, r := range rows {
		if !r.IsTitle() {
			continue
		}
		i, ok := idx[r.Surface]
		if !ok {
			i = len(out)
			idx[r.Surface] = i
			out = append(out, model.KeyCount{Key: r.Surface})
		}
		out[i].Count++
	}
	return out
}

// WinRateOn returns a player's win percentage on one surface, 0 without matches.
func WinRateOn(rows []model.PlayerMatchRow, surface string) float64 {
	var wins, total int
	for _, r := range rows {
		if r.Surface != surface {
			continue
		}
		total++
		if r.Won() {
			wins++
		}
	}
	return model.GroupStat{Wins: wins, Matches: total}.WinRate()
}
