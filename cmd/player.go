package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
)

var (
	playerSurface    string
	playerCategory   string
	playerMinMatches int
)

// playerCmd is the cobra command for season analysis of one or more players.
var playerCmd = &cobra.Command{
	Use:   "player <name> [<name>...]",
	Short: "Season analysis for one or more players",
	Long: `Win/loss record, titles, surface/tournament/category splits, tie-break and
three-set frequency for each player. Names are matched exactly as stored,
e.g. "Nadal R.". Comparing two or more players adds a radar table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().StringVar(&playerSurface, "surface", "", "only matches on this surface (Hard, Clay, Grass, Carpet)")
	playerCmd.Flags().StringVar(&playerCategory, "category", "", "only matches in this series/category (e.g. \"Grand Slam\")")
	playerCmd.Flags().IntVar(&playerMinMatches, "min-matches", 3, "hide breakdown groups with fewer matches")
}

// playerStats bundles every per-player statistic for one request. A
// statistic that could not be computed carries its error instead.
type playerStats struct {
	Source      model.Source
	Players     []string
	Records     []model.PlayerRecord
	Titles      []model.TitleWin
	TitlesBy    map[string][]model.KeyCount // player -> titles per surface
	Surfaces      []model.GroupStat
	SurfaceErr    error
	Tournaments   []model.GroupStat
	TournamentErr error
	Categories    []model.GroupStat
	CategoryErr   error
	Tiebreaks     []model.MatchRate
	ThreeSets     []model.MatchRate
	SetAverages   []model.SetAverages
	Radar         []model.RadarScore
	Rolling       []model.RollingPoint
	RollingErr    error
}

// computePlayerStats runs every aggregation over t. Failures stay local to
// the statistic that hit them.
func computePlayerStats(t model.MatchTable, players []string) playerStats {
	pt := aggregator.Materialize(t, players)
	ps := playerStats{
		Source:    t.Source,
		Players:   players,
		Records:   aggregator.Records(pt, players),
		Titles:    aggregator.Titles(pt, players),
		Tiebreaks: aggregator.TiebreakRates(pt, players),
		ThreeSets: aggregator.ThreeSetRates(pt, players),
		Radar:     aggregator.RadarScores(pt, players),
		TitlesBy:  make(map[string][]model.KeyCount),
	}
	ps.Surfaces, ps.SurfaceErr = aggregator.Breakdown(pt, players, aggregator.BySurface)
	ps.Tournaments, ps.TournamentErr = aggregator.Breakdown(pt, players, aggregator.ByTournament)
	ps.Categories, ps.CategoryErr = aggregator.Breakdown(pt, players, aggregator.ByCategory)
	ps.Rolling, ps.RollingErr = aggregator.RollingWinRate(pt, players)
	for _, p := range players {
		rows := pt.For(p)
		ps.SetAverages = append(ps.SetAverages, aggregator.AverageSets(p, rows))
		if ts := aggregator.TitlesBySurface(rows); len(ts) > 0 {
			ps.TitlesBy[p] = ts
		}
	}
	return ps
}

func runPlayer(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	players := splitPlayers(args)
	t, err := loadTable(cmd.Context(), src, playerFilter(players, playerSurface, playerCategory))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	if playerCategory != "" && t.Schema.CategoryColumn == "" {
		log.Warn().Str("source", src.String()).Msg("--category matches nothing: source has no series/category column")
	}

	ps := computePlayerStats(t, players)
	for _, r := range ps.Records {
		if r.Matches() == 0 {
			fmt.Fprintf(os.Stderr, "No matches found for %q in %s\n", r.Player, src)
		}
	}

	w := os.Stdout
	fmt.Fprintf(w, "\n=== %s ===\n\n", src)
	report.PrintRecords(w, ps.Records)

	fmt.Fprintf(w, "\n--- Titles ---\n\n")
	report.PrintTitles(w, ps.Titles)
	for _, p := range players {
		if ts, ok := ps.TitlesBy[p]; ok {
			fmt.Fprintf(w, "\n%s titles by surface\n", p)
			report.PrintKeyCounts(w, "SURFACE", "TITLES", ts)
		}
	}

	printBreakdown(w, aggregator.BySurface, ps.Surfaces, ps.SurfaceErr)
	printBreakdown(w, aggregator.ByTournament, ps.Tournaments, ps.TournamentErr)
	printBreakdown(w, aggregator.ByCategory, ps.Categories, ps.CategoryErr)

	fmt.Fprintf(w, "\n--- Tie-breaks ---\n\n")
	report.PrintRates(w, "TB", ps.Tiebreaks)

	fmt.Fprintf(w, "\n--- Three-set matches ---\n\n")
	report.PrintRates(w, "3SET", ps.ThreeSets)

	fmt.Fprintf(w, "\n--- Sets per match ---\n\n")
	report.PrintSetAverages(w, ps.SetAverages)

	if len(ps.Radar) > 0 {
		fmt.Fprintf(w, "\n--- Comparison ---\n\n")
		report.PrintRadar(w, ps.Radar)
	}
	return nil
}

// describeErr renders a per-statistic failure for JSON and prompts.
func describeErr(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, aggregator.ErrMissingColumn):
		return "unavailable: column missing from source"
	case errors.Is(err, aggregator.ErrDateParse):
		return "unavailable: unparseable dates"
	default:
		return err.Error()
	}
}

func printBreakdown(w io.Writer, by aggregator.GroupBy, stats []model.GroupStat, err error) {
	fmt.Fprintf(w, "\n--- By %s ---\n\n", by)
	if err != nil {
		report.PrintUnavailable(w, by.String()+" breakdown", err)
		return
	}
	report.PrintBreakdown(w, strings.ToUpper(by.String()), stats, playerMinMatches)
}
