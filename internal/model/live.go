package model

// ---- Live feed ----
// These types come from the third-party live tennis feed. They are display
// data only and never feed the statistics above.

// LiveMatch is a match in progress.
type LiveMatch struct {
	Home       string
	Away       string
	HomeScore  int
	AwayScore  int
	Tournament string
	Round      string
	Status     string
}

// RankingEntry is one line of an official ranking.
type RankingEntry struct {
	Rank    int
	Player  string
	Country string
	Points  int
}

// TournamentEntry is one event in the tournament calendar.
type TournamentEntry struct {
	Name      string
	Category  string
	Surface   string
	StartDate string
	EndDate   string
}

// PlayerSummary is a player search hit.
type PlayerSummary struct {
	ID      string
	Name    string
	Country string
	Ranking int
}

// StatField is one flattened field of a player's live statistics.
type StatField struct {
	Name  string
	Value string
}
