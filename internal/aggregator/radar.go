package aggregator

import "github.com/pable/go-tennis-metrics/internal/model"

// RadarScores computes the five radar axes for each requested player. Titles
// are scaled against the best title count in the request. Fewer than two
// players yields nil: a single-player radar has nothing to compare against.
func RadarScores(pt model.PlayerTable, players []string) []model.RadarScore {
	ps := distinct(players)
	if len(ps) < 2 {
		return nil
	}
	recs := Records(pt, ps)
	maxTitles := 0
	for _, r := range recs {
		if r.Titles > maxTitles {
			maxTitles = r.Titles
		}
	}
	div := float64(maxTitles)
	if maxTitles == 0 {
		div = 1
	}

	out := make([]model.RadarScore, 0, len(ps))
	for i, p := range ps {
		rows := pt.For(p)
		out = append(out, model.RadarScore{
			Player:  p,
			WinRate: recs[i].WinRate(),
			Hard:    WinRateOn(rows, model.SurfaceHard),
			Clay:    WinRateOn(rows, model.SurfaceClay),
			Grass:   WinRateOn(rows, model.SurfaceGrass),
			Titles:  float64(recs[i].Titles) / div * 100,
		})
	}
	return out
}
