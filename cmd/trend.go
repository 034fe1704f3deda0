package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
)

var trendSurface string

var trendCmd = &cobra.Command{
	Use:   "trend <name> [<name>...]",
	Short: "Chronological cumulative win rate for one or more players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&trendSurface, "surface", "", "only matches on this surface")
}

func runTrend(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	players := splitPlayers(args)
	t, err := loadTable(cmd.Context(), src, playerFilter(players, trendSurface, ""))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}

	pts, err := aggregator.RollingWinRate(aggregator.Materialize(t, players), players)
	if err != nil {
		report.PrintUnavailable(os.Stdout, "win-rate trend", err)
		return nil
	}
	if len(pts) == 0 {
		fmt.Println("no matches found")
		return nil
	}
	report.PrintRolling(os.Stdout, pts)
	return nil
}
