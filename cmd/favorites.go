package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var favoritesTop int

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Players with the most wins on each surface",
	Args:  cobra.NoArgs,
	RunE:  runFavorites,
}

func init() {
	favoritesCmd.Flags().IntVar(&favoritesTop, "top", aggregator.FavoritesPerSurface, "players listed per surface")
}

func runFavorites(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	t, err := loadTable(cmd.Context(), src, storage.Filter{})
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	fmt.Fprintf(os.Stdout, "\n=== %s favorites by surface ===\n", src)
	report.PrintFavorites(os.Stdout, aggregator.FavoritesBySurface(t.Rows, favoritesTop))
	return nil
}
