// Package report renders aggregation results as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// unavailable is printed where a value does not exist.
const unavailable = "—"

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func orDash(s string) string {
	if s == "" {
		return unavailable
	}
	return s
}

// PrintUnavailable prints a one-line notice for a statistic that could not
// be computed.
func PrintUnavailable(w io.Writer, title string, err error) {
	fmt.Fprintf(w, "%s: unavailable (%v)\n", title, err)
}

// PrintOverview prints the season header and per-surface match counts.
func PrintOverview(w io.Writer, ov model.SeasonOverview) {
	dates := unavailable
	if ov.EarliestDate != "" {
		dates = ov.EarliestDate + " → " + ov.LatestDate
	}
	fmt.Fprintf(w, "\n=== %s ===\n\n", ov.Source)
	fmt.Fprintf(w, "  Matches         : %d\n", ov.Matches)
	fmt.Fprintf(w, "  Date range      : %s\n", dates)
	fmt.Fprintf(w, "  Players         : %d\n", ov.Players)
	fmt.Fprintf(w, "  Tournaments     : %d\n", ov.Tournaments)
	fmt.Fprintf(w, "  Category column : %s\n", orDash(ov.CategoryColumn))
	if ov.IncompleteScore > 0 {
		fmt.Fprintf(w, "  No set winner   : %d (retirements, walkovers)\n", ov.IncompleteScore)
	}

	fmt.Fprintf(w, "\n--- Surfaces ---\n\n")
	table := newTable(w)
	table.Header("SURFACE", "MATCHES", "SHARE")
	for _, s := range ov.SurfaceCounts {
		share := 0.0
		if ov.Matches > 0 {
			share = float64(s.Count) / float64(ov.Matches) * 100
		}
		table.Append(orDash(s.Key), strconv.Itoa(s.Count), pct(share))
	}
	table.Render()
}

// PrintRecords prints the win/loss and title table.
func PrintRecords(w io.Writer, recs []model.PlayerRecord) {
	table := newTable(w)
	table.Header("PLAYER", "MATCHES", "W", "L", "WIN%", "TITLES", "GS_TITLES")
	for _, r := range recs {
		winRate := unavailable
		if r.Matches() > 0 {
			winRate = pct(r.WinRate())
		}
		table.Append(
			r.Player,
			strconv.Itoa(r.Matches()),
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			winRate,
			strconv.Itoa(r.Titles),
			strconv.Itoa(r.GrandSlamTitles),
		)
	}
	table.Render()
}

// PrintBreakdown prints a surface/tournament/category breakdown. Groups with
// fewer than minMatches matches are hidden; the count of hidden groups is
// reported below the table.
func PrintBreakdown(w io.Writer, groupName string, stats []model.GroupStat, minMatches int) {
	table := newTable(w)
	table.Header("PLAYER", groupName, "MATCHES", "W", "L", "WIN%", "TITLES")
	hidden := 0
	for _, g := range stats {
		if g.Matches < minMatches {
			hidden++
			continue
		}
		table.Append(
			g.Player,
			orDash(g.Key),
			strconv.Itoa(g.Matches),
			strconv.Itoa(g.Wins),
			strconv.Itoa(g.Losses()),
			pct(g.WinRate()),
			strconv.Itoa(g.Titles),
		)
	}
	table.Render()
	if hidden > 0 {
		fmt.Fprintf(w, "(%d groups under %d matches hidden)\n", hidden, minMatches)
	}
}

// PrintTitles lists tournaments won.
func PrintTitles(w io.Writer, titles []model.TitleWin) {
	if len(titles) == 0 {
		fmt.Fprintln(w, "no titles")
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "DATE", "TOURNAMENT", "SURFACE", "CATEGORY", "FINAL OPPONENT")
	for _, t := range titles {
		table.Append(t.Player, orDash(t.Date), t.Tournament, orDash(t.Surface), orDash(t.Category), t.RunnerUp)
	}
	table.Render()
}

// PrintKeyCounts prints a two-column (key, count) table.
func PrintKeyCounts(w io.Writer, keyName, countName string, rows []model.KeyCount) {
	table := newTable(w)
	table.Header(keyName, countName)
	for _, r := range rows {
		table.Append(orDash(r.Key), strconv.Itoa(r.Count))
	}
	table.Render()
}

// PrintRates prints per-player percentages such as tie-break or three-set frequency.
func PrintRates(w io.Writer, label string, rates []model.MatchRate) {
	table := newTable(w)
	table.Header("PLAYER", label, "MATCHES", label+"%")
	for _, r := range rates {
		p := unavailable
		if r.Matches > 0 {
			p = pct(r.Pct())
		}
		table.Append(r.Player, strconv.Itoa(r.Count), strconv.Itoa(r.Matches), p)
	}
	table.Render()
}

// PrintTopEntries prints a ranked player list.
func PrintTopEntries(w io.Writer, countName string, entries []model.TopEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	table := newTable(w)
	table.Header("#", "PLAYER", countName)
	for i, e := range entries {
		table.Append(strconv.Itoa(i+1), e.Player, strconv.Itoa(e.Count))
	}
	table.Render()
}

// PrintFavorites prints one ranked winners table per surface.
func PrintFavorites(w io.Writer, favs []model.SurfaceFavorites) {
	if len(favs) == 0 {
		fmt.Fprintln(w, "no matches")
		return
	}
	for _, f := range favs {
		fmt.Fprintf(w, "\n%s\n", orDash(f.Surface))
		PrintTopEntries(w, "WINS", f.Entries)
	}
}

// PrintRolling prints a cumulative win-rate series.
func PrintRolling(w io.Writer, pts []model.RollingPoint) {
	table := newTable(w)
	table.Header("PLAYER", "DATE", "TOURNAMENT", "RESULT", "W", "MATCHES", "WIN%")
	for _, p := range pts {
		table.Append(
			p.Player,
			p.Date,
			orDash(p.Tournament),
			p.Outcome.String(),
			strconv.Itoa(p.Wins),
			strconv.Itoa(p.Matches),
			pct(p.WinRate),
		)
	}
	table.Render()
}

// PrintRadar prints the multi-axis comparison scores.
func PrintRadar(w io.Writer, scores []model.RadarScore) {
	table := newTable(w)
	table.Header("PLAYER", "WIN%", "HARD%", "CLAY%", "GRASS%", "TITLES")
	for _, s := range scores {
		table.Append(s.Player, pct(s.WinRate), pct(s.Hard), pct(s.Clay), pct(s.Grass), fmt.Sprintf("%.0f", s.Titles))
	}
	table.Render()
}

// PrintSetAverages prints sets per match at Grand Slams against other events.
func PrintSetAverages(w io.Writer, avgs []model.SetAverages) {
	table := newTable(w)
	table.Header("PLAYER", "GS_SETS", "GS_MATCHES", "OTHER_SETS", "OTHER_MATCHES")
	for _, a := range avgs {
		gs, other := unavailable, unavailable
		if a.GrandSlamMatches > 0 {
			gs = fmt.Sprintf("%.2f", a.GrandSlam)
		}
		if a.OtherMatches > 0 {
			other = fmt.Sprintf("%.2f", a.Other)
		}
		table.Append(a.Player, gs, strconv.Itoa(a.GrandSlamMatches), other, strconv.Itoa(a.OtherMatches))
	}
	table.Render()
}

// PrintMatchLog prints one line per match from the player's side.
func PrintMatchLog(w io.Writer, rows []model.PlayerMatchRow) {
	table := newTable(w)
	table.Header("DATE", "TOURNAMENT", "SURFACE", "ROUND", "OPPONENT", "RESULT", "SCORE")
	for _, r := range rows {
		table.Append(
			orDash(r.Date),
			orDash(r.Tournament),
			orDash(r.Surface),
			orDash(r.Round),
			r.Opponent(r.Player),
			r.Outcome.String(),
			orDash(r.ScoreLine()),
		)
	}
	table.Render()
}

// PrintRaw prints the result of a raw query.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
}
