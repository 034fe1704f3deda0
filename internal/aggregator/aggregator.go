// Package aggregator derives per-player statistics from raw match rows.
// Every function is pure: inputs are never modified and identical inputs
// always give identical outputs.
package aggregator

import (
	"errors"

	"github.com/pable/go-tennis-metrics/internal/model"
)

var (
	// ErrMissingColumn reports that a statistic needs a column the source
	// table does not have (date, category).
	ErrMissingColumn = errors.New("column unavailable")
	// ErrDateParse reports a date cell that could not be parsed.
	ErrDateParse = errors.New("unparseable date")
)

// Materialize fans a match table out into one row per (match, requested
// player) pair. Players are deduplicated keeping first occurrence; output
// is partitioned by player in that order and keeps table order within each
// partition. A match between two requested players appears once per side.
func Materialize(t model.MatchTable, players []string) model.PlayerTable {
	out := model.PlayerTable{Schema: t.Schema}
	for _, p := range distinct(players) {
		for _, m := range t.Rows {
			if !m.Involves(p) {
				continue
			}
			outcome := model.OutcomeLoss
			if m.Winner == p {
				outcome = model.OutcomeWin
			}
			out.Rows = append(out.Rows, model.PlayerMatchRow{Player: p, Outcome: outcome, MatchRecord: m})
		}
	}
	return out
}

// Tally computes wins, losses and title counts over rows that all belong
// to player.
func Tally(player string, rows []model.PlayerMatchRow) model.PlayerRecord {
	rec := model.PlayerRecord{Player: player}
	for _, r := range rows {
		if !r.Won() {
			rec.Losses++
			continue
		}
		rec.Wins++
		if r.IsFinal() {
			rec.Titles++
			if r.IsGrandSlam() {
				rec.GrandSlamTitles++
			}
		}
	}
	return rec
}

// Records returns one tally per requested player, in request order. Players
// with no rows get a zero record rather than being omitted.
func Records(pt model.PlayerTable, players []string) []model.PlayerRecord {
	ps := distinct(players)
	out := make([]model.PlayerRecord, 0, len(ps))
	for _, p := range ps {
		out = append(out, Tally(p, pt.For(p)))
	}
	return out
}

// Titles lists the finals won by each requested player.
func Titles(pt model.PlayerTable, players []string) []model.TitleWin {
	var out []model.TitleWin
	for _, p := range distinct(players) {
		for _, r := range pt.For(p) {
			if !r.IsTitle() {
				continue
			}
			out = append(out, model.TitleWin{
				Player:     p,
				Tournament: r.Tournament,
				Surface:    r.Surface,
				Category:   r.Category,
				RunnerUp:   r.Loser,
				Date:       r.Date,
			})
		}
	}
	return out
}

func distinct(players []string) []string {
	seen := make(map[string]struct{}, len(players))
	out := make([]string, 0, len(players))
	for _, p := range players {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
