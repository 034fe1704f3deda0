package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a read-only SQL query against the --circuit/--season database",
	Long: `Run an arbitrary read-only SQL query against one season database and print
results as a table.

Schema overview:
  data(Location, Tournament, Date, Series|Level|Category|Tier, Court, Surface,
    Round, "Best of", Winner, Loser, WRank, LRank, WPts, LPts,
    W1, L1, W2, L2, W3, L3, W4, L4, W5, L5, Wsets, Lsets, Comment)

Column names with spaces need quotes: SELECT "Best of" FROM data`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	cols, rows, err := store.QueryRaw(cmd.Context(), src, query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
