package aggregator

import (
	"sort"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// Overview summarises a whole season table.
func Overview(t model.MatchTable) model.SeasonOverview {
	ov := model.SeasonOverview{
		Source:         t.Source,
		Matches:        len(t.Rows),
		CategoryColumn: t.Schema.CategoryColumn,
	}
	players := make(map[string]struct{})
	tournaments := make(map[string]struct{})
	surfaces := make(map[string]int)
	var earliest, latest string
	for _, m := range t.Rows {
		players[m.Winner] = struct{}{}
		players[m.Loser] = struct{}{}
		if m.Tournament != "" {
			tournaments[m.Tournament] = struct{}{}
		}
		surfaces[m.Surface]++
		if !m.Completed() {
			ov.IncompleteScore++
		}
		if !t.Schema.HasDate {
			continue
		}
		d, err := ParseDate(m.Date)
		if err != nil {
			continue
		}
		day := d.Format("2006-01-02")
		if earliest == "" || day < earliest {
			earliest = day
		}
		if day > latest {
			latest = day
		}
	}
	ov.Players = len(players)
	ov.Tournaments = len(tournaments)
	ov.EarliestDate = earliest
	ov.LatestDate = latest
	for s, c := range surfaces {
		ov.SurfaceCounts = append(ov.SurfaceCounts, model.KeyCount{Key: s, Count: c})
	}
	sort.Slice(ov.SurfaceCounts, func(i, j int) bool {
		a, b := ov.SurfaceCounts[i], ov.SurfaceCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
	return ov
}
