package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var summaryTop int

// summaryCmd prints a season-wide overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of one season",
	Long: `Display aggregate statistics for the selected circuit and season:
match count, date range, players, tournaments, surface split
and the players with the most wins.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().IntVar(&summaryTop, "top", aggregator.TopN, "number of players in the wins table")
}

func runSummary(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	t, err := loadTable(cmd.Context(), src, storage.Filter{})
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	if len(t.Rows) == 0 {
		return nil
	}

	report.PrintOverview(os.Stdout, aggregator.Overview(t))

	fmt.Fprintf(os.Stdout, "\n--- Most wins ---\n\n")
	report.PrintTopEntries(os.Stdout, "WINS", aggregator.CountWins(t.Rows, summaryTop))

	fmt.Fprintf(os.Stdout, "\n--- Most matches ---\n\n")
	report.PrintTopEntries(os.Stdout, "MATCHES", aggregator.CountAppearances(t.Rows, summaryTop))
	return nil
}
