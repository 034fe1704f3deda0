package aggregator

import "github.com/pable/go-tennis-metrics/internal/model"

// ThreeSetRate counts the player's matches with exactly three sets played.
// Rows without recorded set totals count toward Matches only.
func ThreeSetRate(player string, rows []model.PlayerMatchRow) model.MatchRate {
	mr := model.MatchRate{Player: player, Matches: len(rows)}
	for _, r := range rows {
		if r.IsThreeSetter() {
			mr.Count++
		}
	}
	return mr
}

// ThreeSetRates returns ThreeSetRate for each requested player.
func ThreeSetRates(pt model.PlayerTable, players []string) []model.MatchRate {
	var out []model.MatchRate
	for _, p := range distinct(players) {
		out = append(out, ThreeSetRate(p, pt.For(p)))
	}
	return out
}

// ThreeSetsBySurface counts three-set matches per surface, in order of
// first appearance.
func ThreeSetsBySurface(rows []model.PlayerMatchRow) []model.KeyCount {
	idx := make(map[string]int)
	var out []model.KeyCount
	for _, r := range rows {
		if !r.IsThreeSetter() {
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

// TopThreeSetPlayers ranks players by the number of 2-1 matches they played
// in. For ATP, Grand Slams are excluded because they are best of five.
func TopThreeSetPlayers(matches []model.MatchRecord, c model.Circuit) []model.TopEntry {
	var dec []model.MatchRecord
	for _, m := range matches {
		if m.IsDeciderFor(c) {
			dec = append(dec, m)
		}
	}
	return CountAppearances(dec, TopN)
}

// AverageSets compares the mean sets per match at Grand Slams against other
// events. Rows without recorded set totals are skipped.
func AverageSets(player string, rows []model.PlayerMatchRow) model.SetAverages {
	avg := model.SetAverages{Player: player}
	var gs, other int
	for _, r := range rows {
		n, ok := r.SetsPlayed()
		if !ok {
			continue
		}
		if r.IsGrandSlam() {
			gs += n
			avg.GrandSlamMatches++
		} else {
			other += n
			avg.OtherMatches++
		}
	}
	if avg.GrandSlamMatches > 0 {
		avg.GrandSlam = float64(gs) / float64(avg.GrandSlamMatches)
	}
	if avg.OtherMatches > 0 {
		avg.Other = float64(other) / float64(avg.OtherMatches)
	}
	return avg
}
