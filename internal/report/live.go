package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// PrintLiveMatches prints matches in progress.
func PrintLiveMatches(w io.Writer, matches []model.LiveMatch) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "no live matches")
		return
	}
	table := newTable(w)
	table.Header("PLAYER 1", "SCORE", "PLAYER 2", "TOURNAMENT", "ROUND", "STATUS")
	for _, m := range matches {
		table.Append(m.Home, fmt.Sprintf("%d - %d", m.HomeScore, m.AwayScore), m.Away, m.Tournament, m.Round, m.Status)
	}
	table.Render()
}

// PrintRanking prints an official ranking.
func PrintRanking(w io.Writer, circuit model.Circuit, entries []model.RankingEntry) {
	fmt.Fprintf(w, "\n%s ranking\n", circuit)
	if len(entries) == 0 {
		fmt.Fprintln(w, "ranking unavailable")
		return
	}
	table := newTable(w)
	table.Header("RANK", "PLAYER", "COUNTRY", "POINTS")
	for _, e := range entries {
		table.Append(strconv.Itoa(e.Rank), e.Player, orDash(e.Country), strconv.Itoa(e.Points))
	}
	table.Render()
}

// PrintTournaments prints the tournament calendar.
func PrintTournaments(w io.Writer, ts []model.TournamentEntry) {
	if len(ts) == 0 {
		fmt.Fprintln(w, "no tournaments")
		return
	}
	table := newTable(w)
	table.Header("TOURNAMENT", "CATEGORY", "SURFACE", "START", "END")
	for _, t := range ts {
		table.Append(t.Name, orDash(t.Category), orDash(t.Surface), orDash(t.StartDate), orDash(t.EndDate))
	}
	table.Render()
}

// PrintPlayerSearch prints player search results.
func PrintPlayerSearch(w io.Writer, ps []model.PlayerSummary) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "no players found")
		return
	}
	table := newTable(w)
	table.Header("ID", "PLAYER", "COUNTRY", "RANK")
	for _, p := range ps {
		rank := unavailable
		if p.Ranking > 0 {
			rank = strconv.Itoa(p.Ranking)
		}
		table.Append(orDash(p.ID), p.Name, orDash(p.Country), rank)
	}
	table.Render()
}

// PrintStatFields prints flattened live statistics.
func PrintStatFields(w io.Writer, fields []model.StatField) {
	if len(fields) == 0 {
		fmt.Fprintln(w, "no statistics")
		return
	}
	table := newTable(w)
	table.Header("FIELD", "VALUE")
	for _, f := range fields {
		table.Append(f.Name, f.Value)
	}
	table.Render()
}
