package aggregator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// dateLayouts are the date encodings seen in season tables.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// ParseDate parses a raw Date cell.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, s)
}

// RollingWinRate builds a cumulative win-rate series for each requested
// player: rows sorted by date, point i carrying wins so far / (i+1) * 100.
//
// The whole series is refused with ErrMissingColumn when the source has no
// Date column, and with ErrDateParse when any involved row has a bad date.
func RollingWinRate(pt model.PlayerTable, players []string) ([]model.RollingPoint, error) {
	if !pt.Schema.HasDate {
		return nil, fmt.Errorf("rolling win rate: date %w", ErrMissingColumn)
	}
	var out []model.RollingPoint
	for _, p := range distinct(players) {
		pts, err := rollingFor(p, pt.For(p))
		if err != nil {
			return nil, fmt.Errorf("rolling win rate for %s: %w", p, err)
		}
		out = append(out, pts...)
	}
	return out, nil
}

func rollingFor(player string, rows []model.PlayerMatchRow) ([]model.RollingPoint, error) {
	type dated struct {
		at  time.Time
		row model.PlayerMatchRow
	}
	ds := make([]dated, len(rows))
	for i, r := range rows {
		t, err := ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		ds[i] = dated{at: t, row: r}
	}
	sort.SliceStable(ds, func(i, j int) bool { return ds[i].at.Before(ds[j].at) })

	out := make([]model.RollingPoint, len(ds))
	wins := 0
	for i, d := range ds {
		if d.row.Won() {
			wins++
		}
		out[i] = model.RollingPoint{
			Player:     player,
			Date:       d.at.Format("2006-01-02"),
			Wins:       wins,
			Matches:    i + 1,
			WinRate:    float64(wins) / float64(i+1) * 100,
			Tournament: d.row.Tournament,
			Outcome:    d.row.Outcome,
		}
	}
	return out, nil
}
