package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/tennisapi"
)

var (
	liveAPIKey string
	liveLimit  int
	liveFrom   string
	liveTo     string
	liveBoth   bool
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Live scores, rankings and calendar from the RapidAPI tennis feed",
	Long: `Query the live tennis feed (requires TENNIS_API_KEY or [live] api_key).
The feed is display-only: nothing it returns is stored or mixed into season statistics.`,
}

var liveMatchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Matches in progress",
	Args:  cobra.NoArgs,
	RunE:  runLiveMatches,
}

var liveRankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Official ranking for --circuit (or both with --both)",
	Args:  cobra.NoArgs,
	RunE:  runLiveRankings,
}

var liveTournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Tournament calendar (defaults to the current month)",
	Args:  cobra.NoArgs,
	RunE:  runLiveTournaments,
}

var liveSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search players by name (at least 3 characters)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLiveSearch,
}

var liveStatsCmd = &cobra.Command{
	Use:   "stats <player-id>",
	Short: "Detailed statistics for a player id from 'live search'",
	Args:  cobra.ExactArgs(1),
	RunE:  runLiveStats,
}

func init() {
	liveCmd.PersistentFlags().StringVar(&liveAPIKey, "api-key", "", "RapidAPI key (falls back to config / $TENNIS_API_KEY)")

	liveRankingsCmd.Flags().IntVar(&liveLimit, "limit", 100, "number of ranking entries")
	liveRankingsCmd.Flags().BoolVar(&liveBoth, "both", false, "fetch ATP and WTA rankings together")
	liveTournamentsCmd.Flags().StringVar(&liveFrom, "from", "", "first day (YYYY-MM-DD)")
	liveTournamentsCmd.Flags().StringVar(&liveTo, "to", "", "last day (YYYY-MM-DD)")

	liveCmd.AddCommand(liveMatchesCmd)
	liveCmd.AddCommand(liveRankingsCmd)
	liveCmd.AddCommand(liveTournamentsCmd)
	liveCmd.AddCommand(liveSearchCmd)
	liveCmd.AddCommand(liveStatsCmd)
}

func newLiveClient() *tennisapi.Client {
	key := liveAPIKey
	if key == "" {
		key = cfg.Live.APIKey
	}
	if key == "" {
		log.Warn().Msg("no live feed API key: set TENNIS_API_KEY or use --api-key")
	}
	return tennisapi.NewClient(tennisapi.Options{
		APIKey:  key,
		Host:    cfg.Live.Host,
		BaseURL: cfg.Live.BaseURL,
		Timeout: cfg.Live.Timeout.Duration,
		Logger:  log,
	})
}

// liveContext bounds a whole live command, including parallel requests.
func liveContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return withTimeout(cmd.Context(), 2*cfg.Live.Timeout.Duration)
}

func runLiveMatches(cmd *cobra.Command, args []string) error {
	ctx, cancel := liveContext(cmd)
	defer cancel()
	report.PrintLiveMatches(os.Stdout, newLiveClient().LiveMatches(ctx))
	return nil
}

func runLiveRankings(cmd *cobra.Command, args []string) error {
	ctx, cancel := liveContext(cmd)
	defer cancel()
	client := newLiveClient()

	circuits := []model.Circuit{model.CircuitATP, model.CircuitWTA}
	if !liveBoth {
		c, err := model.ParseCircuit(circuitName)
		if err != nil {
			return err
		}
		circuits = []model.Circuit{c}
	}

	results := make([][]model.RankingEntry, len(circuits))
	g, gCtx := errgroup.WithContext(ctx)
	for i, c := range circuits {
		g.Go(func() error {
			results[i] = client.Ranking(gCtx, c, liveLimit)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("fetch rankings: %w", err)
	}
	for i, c := range circuits {
		report.PrintRanking(os.Stdout, c, results[i])
	}
	return nil
}

func runLiveTournaments(cmd *cobra.Command, args []string) error {
	ctx, cancel := liveContext(cmd)
	defer cancel()
	report.PrintTournaments(os.Stdout, newLiveClient().Tournaments(ctx, liveFrom, liveTo))
	return nil
}

func runLiveSearch(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if len(query) < tennisapi.MinSearchLen {
		return fmt.Errorf("search query must be at least %d characters", tennisapi.MinSearchLen)
	}
	ctx, cancel := liveContext(cmd)
	defer cancel()
	report.PrintPlayerSearch(os.Stdout, newLiveClient().SearchPlayers(ctx, query))
	return nil
}

func runLiveStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := liveContext(cmd)
	defer cancel()
	report.PrintStatFields(os.Stdout, newLiveClient().PlayerStats(ctx, args[0]))
	return nil
}
