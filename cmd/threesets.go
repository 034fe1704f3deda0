package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var threesetsCmd = &cobra.Command{
	Use:   "threesets [<name>...]",
	Short: "Three-set matches: season ranking, or per player",
	Long: `Without arguments, rank the 15 players involved in the most 2-1 matches
(ATP Grand Slams excluded since they are best of five). With player names,
print each player's share of three-set matches and their split by surface.`,
	RunE: runThreesets,
}

func runThreesets(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	players := splitPlayers(args)
	if len(players) == 0 {
		f := storage.Filter{storage.TwoOne()}
		if ex := src.Circuit.ExcludedSeries(); ex != "" {
			f = append(f, storage.NotSeries(ex))
		}
		t, err := loadTable(cmd.Context(), src, f)
		if err != nil {
			return fmt.Errorf("load %s: %w", src, err)
		}
		fmt.Fprintf(os.Stdout, "\n=== %s matches won 2-1 ===\n\n", src)
		report.PrintTopEntries(os.Stdout, "2-1_MATCHES", aggregator.TopThreeSetPlayers(t.Rows, src.Circuit))
		return nil
	}

	t, err := loadTable(cmd.Context(), src, playerFilter(players, "", ""))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	pt := aggregator.Materialize(t, players)
	report.PrintRates(os.Stdout, "3SET", aggregator.ThreeSetRates(pt, players))
	for _, p := range players {
		if bySurface := aggregator.ThreeSetsBySurface(pt.For(p)); len(bySurface) > 0 {
			fmt.Fprintf(os.Stdout, "\n%s three-set matches by surface\n", p)
			report.PrintKeyCounts(os.Stdout, "SURFACE", "3SET", bySurface)
		}
	}
	return nil
}
