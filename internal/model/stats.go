package model

// ---- Derived statistics ----

// PlayerRecord is a player's win/loss tally and title counts.
type PlayerRecord struct {
	Player          string
	Wins            int
	Losses          int
	Titles          int
	GrandSlamTitles int
}

// Matches returns wins + losses.
func (r PlayerRecord) Matches() int { return r.Wins + r.Losses }

// WinRate returns the win percentage in [0,100]; 0 when no matches were played.
func (r PlayerRecord) WinRate() float64 {
	return percent(r.Wins, r.Matches())
}

// GroupStat is one (player, group) cell of a surface/tournament/category breakdown.
type GroupStat struct {
	Player  string
	Key     string
	Matches int
	Wins    int
	Titles  int
}

// Losses returns Matches - Wins.
func (g GroupStat) Losses() int { return g.Matches - g.Wins }

// WinRate returns the win percentage within the group.
func (g GroupStat) WinRate() float64 { return percent(g.Wins, g.Matches) }

// TopEntry is one player's occurrence count in a season-wide ranking.
type TopEntry struct {
	Player string
	Count  int
}

// SurfaceFavorites ranks match winners on one surface.
type SurfaceFavorites struct {
	Surface string
	Entries []TopEntry
}

// RollingPoint is one point of a player's cumulative win-rate series.
type RollingPoint struct {
	Player     string
	Date       string // YYYY-MM-DD
	Wins       int    // cumulative
	Matches    int    // cumulative
	WinRate    float64
	Tournament string
	Outcome    Outcome
}

// RadarScore holds the five radar axes for one player, each in [0,100].
type RadarScore struct {
	Player  string
	WinRate float64
	Hard    float64
	Clay    float64
	Grass   float64
	Titles  float64 // titles normalized to the best player in the request
}

// TitleWin is one tournament won.
type TitleWin struct {
	Player     string
	Tournament string
	Surface    string
	Category   string
	RunnerUp   string
	Date       string
}

// SetAverages compares the mean number of sets per match in Grand Slams
// against all other events.
type SetAverages struct {
	Player           string
	GrandSlam        float64
	GrandSlamMatches int
	Other            float64
	OtherMatches     int
}

// MatchRate is a percentage of a player's matches with some property.
type MatchRate struct {
	Player  string
	Count   int
	Matches int
}

// Pct returns Count/Matches*100, or 0 with no matches.
func (m MatchRate) Pct() float64 { return percent(m.Count, m.Matches) }

// SeasonOverview summarises a full source table.
type SeasonOverview struct {
	Source          Source
	Matches         int
	Players         int
	Tournaments     int
	EarliestDate    string
	LatestDate      string
	SurfaceCounts   []KeyCount
	CategoryColumn  string
	IncompleteScore int // matches without a clear set winner (retirements, walkovers)
}

// KeyCount is a plain (key, count) pair.
type KeyCount struct {
	Key   string
	Count int
}

func percent(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}
