package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var (
	matchesSurface   string
	matchesTiebreaks bool
	matchesThreeSets bool
)

var matchesCmd = &cobra.Command{
	Use:   "matches <name>",
	Short: "List a player's matches in the season",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatches,
}

func init() {
	matchesCmd.Flags().StringVar(&matchesSurface, "surface", "", "only matches on this surface")
	matchesCmd.Flags().BoolVar(&matchesTiebreaks, "tiebreaks", false, "only matches with at least one tie-break")
	matchesCmd.Flags().BoolVar(&matchesThreeSets, "three-sets", false, "only matches that went to three sets")
}

func runMatches(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	player := args[0]
	f := playerFilter([]string{player}, matchesSurface, "")
	if matchesTiebreaks {
		f = append(f, storage.Tiebreaks())
	}
	if matchesThreeSets {
		f = append(f, storage.ThreeSets())
	}
	t, err := loadTable(cmd.Context(), src, f)
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}

	rows := aggregator.Materialize(t, []string{player}).For(player)
	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "No matches found for %q in %s\n", player, src)
		return nil
	}
	rec := aggregator.Tally(player, rows)
	fmt.Fprintf(os.Stdout, "\n%s  |  %s  |  %d-%d  |  Titles: %d\n\n", player, src, rec.Wins, rec.Losses, rec.Titles)
	report.PrintMatchLog(os.Stdout, rows)
	return nil
}
