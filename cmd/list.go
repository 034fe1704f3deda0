package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available season databases",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	sources, err := store.ListSources()
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		fmt.Fprintf(os.Stdout, "No season databases in %s. Run 'tennismetrics import <file.csv>' to add one.\n", store.Dir())
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-6s  %10s  %-16s  %s\n", "CIRCUIT", "SEASON", "SIZE", "MODIFIED", "PATH")
	fmt.Fprintf(os.Stdout, "%-8s  %-6s  %10s  %-16s  %s\n", "────────", "──────", "──────────", "────────────────", "────")
	for _, s := range sources {
		fmt.Fprintf(os.Stdout, "%-8s  %-6d  %10s  %-16s  %s\n",
			s.Source.Circuit, s.Source.Season, humanSize(s.Size), s.ModTime.Format("2006-01-02 15:04"), s.Path)
	}
	return nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
