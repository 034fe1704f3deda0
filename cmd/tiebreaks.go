package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var tiebreaksCmd = &cobra.Command{
	Use:   "tiebreaks [<name>...]",
	Short: "Tie-break frequency: season ranking, or per player",
	Long: `Without arguments, rank the 15 players who played the most matches with
at least one tie-break set (ATP Grand Slams excluded). With player names,
print each player's share of matches that had a tie-break.`,
	RunE: runTiebreaks,
}

func runTiebreaks(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	players := splitPlayers(args)
	if len(players) == 0 {
		t, err := loadTable(cmd.Context(), src, storage.Filter{storage.Tiebreaks()})
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}
		fmt.Fprintf(os.Stdout, "\n=== %s tie-break matches ===\n\n", src)
		report.PrintTopEntries(os.Stdout, "TB_MATCHES", aggregator.TopTiebreakPlayers(t.Rows, src.Circuit))
		return nil
	}

	t, err := loadTable(cmd.Context(), src, playerFilter(players, "", ""))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	report.PrintRates(os.Stdout, "TB", aggregator.TiebreakRates(aggregator.Materialize(t, players), players))
	return nil
}
