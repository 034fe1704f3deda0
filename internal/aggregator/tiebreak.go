package aggregator

import "github.com/pable/go-tennis-metrics/internal/model"

// TiebreakRate counts the player's matches that had at least one tie-break set.
func TiebreakRate(player string, rows []model.PlayerMatchRow) model.MatchRate {
	mr := model.MatchRate{Player: player, Matches: len(rows)}
	for _, r := range rows {
		if r.HasTiebreak() {
			mr.Count++
		}
	}
	return mr
}

// TiebreakRates returns TiebreakRate for each requested player.
func TiebreakRates(pt model.PlayerTable, players []string) []model.MatchRate {
	var out []model.MatchRate
	for _, p := range distinct(players) {
		out = append(out, TiebreakRate(p, pt.For(p)))
	}
	return out
}

// TopTiebreakPlayers ranks players by the number of tie-break matches they
// played in across a whole season. Series excluded by the circuit policy
// (ATP Grand Slams) are not counted.
func TopTiebreakPlayers(matches []model.MatchRecord, c model.Circuit) []model.TopEntry {
	ex := c.ExcludedSeries()
	var tb []model.MatchRecord
	for _, m := range matches {
		if ex != "" && m.Category == ex {
			continue
		}
		if m.HasTiebreak() {
			tb = append(tb, m)
		}
	}
	return CountAppearances(tb, TopN)
}
