package model

import (
	"fmt"
	"strings"
)

// Circuit is a professional tour. Each circuit has one data source per season.
type Circuit string

const (
	CircuitATP Circuit = "atp"
	CircuitWTA Circuit = "wta"
)

// ParseCircuit accepts "atp"/"wta" in any case.
func ParseCircuit(s string) (Circuit, error) {
	switch Circuit(strings.ToLower(strings.TrimSpace(s))) {
	case CircuitATP:
		return CircuitATP, nil
	case CircuitWTA:
		return CircuitWTA, nil
	default:
		return "", fmt.Errorf("unknown circuit %q (want atp or wta)", s)
	}
}

func (c Circuit) String() string { return strings.ToUpper(string(c)) }

// ExcludedSeries returns the series left out of best-of-3 statistics.
// ATP Grand Slams are best-of-5; WTA plays best-of-3 everywhere.
func (c Circuit) ExcludedSeries() string {
	if c == CircuitATP {
		return SeriesGrandSlam
	}
	return ""
}

// Source identifies one season/circuit match table.
type Source struct {
	Circuit Circuit
	Season  int
}

// FileName is the database file holding this source, relative to the data dir.
func (s Source) FileName() string {
	return fmt.Sprintf("%s_%d.db", string(s.Circuit), s.Season)
}

func (s Source) String() string {
	return fmt.Sprintf("%s %d", s.Circuit, s.Season)
}

const (
	SurfaceHard   = "Hard"
	SurfaceClay   = "Clay"
	SurfaceGrass  = "Grass"
	SurfaceCarpet = "Carpet"

	RoundFinal      = "The Final"
	SeriesGrandSlam = "Grand Slam"

	MaxSets = 5
)

// PrimarySurfaces are the surfaces scored on the radar chart, in display order.
var PrimarySurfaces = []string{SurfaceHard, SurfaceClay, SurfaceGrass}

// SetScore holds the games won by the match winner and loser in one set.
// Played is false when the set does not exist in the source row.
type SetScore struct {
	Winner, Loser int
	Played        bool
}

// IsTiebreak reports whether the set finished 7-6 either way.
func (s SetScore) IsTiebreak() bool {
	if !s.Played {
		return false
	}
	return (s.Winner == 7 && s.Loser == 6) || (s.Winner == 6 && s.Loser == 7)
}

// MatchRecord is one played match as stored in a season table.
type MatchRecord struct {
	Winner     string
	Loser      string
	Tournament string
	Category   string // value of the resolved Series/Level/Category/Tier column
	Surface    string
	Round      string
	Date       string // raw source value, parsed only by time-series code

	Sets [MaxSets]SetScore

	WinnerSets   int
	LoserSets    int
	SetsRecorded bool // both Wsets and Lsets present
}

// Involves reports whether player is the winner or the loser.
func (m MatchRecord) Involves(player string) bool {
	return m.Winner == player || m.Loser == player
}

// Opponent returns the other side of the match from player's perspective.
func (m MatchRecord) Opponent(player string) string {
	if m.Winner == player {
		return m.Loser
	}
	return m.Winner
}

// IsFinal reports whether the match decided a title.
func (m MatchRecord) IsFinal() bool { return m.Round == RoundFinal }

// IsGrandSlam reports whether the match was played at a Grand Slam.
func (m MatchRecord) IsGrandSlam() bool { return m.Category == SeriesGrandSlam }

// HasTiebreak reports whether any played set went to a tie-break.
func (m MatchRecord) HasTiebreak() bool {
	for _, s := range m.Sets {
		if s.IsTiebreak() {
			return true
		}
	}
	return false
}

// SetsPlayed returns Wsets+Lsets, or false when the totals were not recorded.
func (m MatchRecord) SetsPlayed() (int, bool) {
	if !m.SetsRecorded {
		return 0, false
	}
	return m.WinnerSets + m.LoserSets, true
}

// IsThreeSetter reports whether exactly three sets were played.
func (m MatchRecord) IsThreeSetter() bool {
	n, ok := m.SetsPlayed()
	return ok && n == 3
}

// IsTwoOne reports a 2-1 result in sets.
func (m MatchRecord) IsTwoOne() bool {
	return m.SetsRecorded && m.WinnerSets == 2 && m.LoserSets == 1
}

// IsDeciderFor reports a 2-1 match that counts for the circuit's three-set
// ranking (ATP Grand Slams are excluded).
func (m MatchRecord) IsDeciderFor(c Circuit) bool {
	if !m.IsTwoOne() {
		return false
	}
	if ex := c.ExcludedSeries(); ex != "" && m.Category == ex {
		return false
	}
	return true
}

// Completed reports whether the set totals show a clear winner. Retirements
// and walkovers can be recorded without one.
func (m MatchRecord) Completed() bool {
	return m.SetsRecorded && m.WinnerSets > m.LoserSets
}

// ScoreLine renders the played sets from the winner's side, e.g. "7-6 6-3".
func (m MatchRecord) ScoreLine() string {
	var parts []string
	for _, s := range m.Sets {
		if !s.Played {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d-%d", s.Winner, s.Loser))
	}
	return strings.Join(parts, " ")
}

// Validate rejects rows that cannot be attributed to two distinct players.
func (m MatchRecord) Validate() error {
	if m.Winner == "" || m.Loser == "" {
		return fmt.Errorf("missing player name (winner=%q loser=%q)", m.Winner, m.Loser)
	}
	if m.Winner == m.Loser {
		return fmt.Errorf("winner and loser are the same player %q", m.Winner)
	}
	return nil
}

// Schema describes which optional columns a source table provides.
type Schema struct {
	CategoryColumn string // "" when none of the candidate columns exist
	HasDate        bool
}

// MatchTable is the raw row set fetched from one source.
type MatchTable struct {
	Source Source
	Schema Schema
	Rows   []MatchRecord
}

// Outcome is a match result from one player's point of view.
type Outcome int

const (
	OutcomeLoss Outcome = iota
	OutcomeWin
)

func (o Outcome) String() string {
	if o == OutcomeWin {
		return "W"
	}
	return "L"
}

// PlayerMatchRow is a MatchRecord seen from one requested player's side.
type PlayerMatchRow struct {
	Player  string
	Outcome Outcome
	MatchRecord
}

// Won reports whether the row's player won the match.
func (r PlayerMatchRow) Won() bool { return r.Outcome == OutcomeWin }

// IsTitle reports a won final.
func (r PlayerMatchRow) IsTitle() bool { return r.Won() && r.IsFinal() }

// PlayerTable holds materialized rows for a set of players, partitioned by
// player in request order.
type PlayerTable struct {
	Schema Schema
	Rows   []PlayerMatchRow
}

// For returns the rows belonging to player, in table order.
func (t PlayerTable) For(player string) []PlayerMatchRow {
	var out []PlayerMatchRow
	for _, r := range t.Rows {
		if r.Player == player {
			out = append(out, r)
		}
	}
	return out
}
