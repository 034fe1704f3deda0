package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/storage"
)

var dropForce bool

// dropCmd deletes one season database.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the --circuit/--season database",
	Long:  "Permanently delete the SQLite database of the selected circuit and season. Re-import the CSV afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	path := store.Path(src)
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", path)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := store.Drop(src); err != nil {
		if errors.Is(err, storage.ErrSourceUnavailable) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", path)
	return nil
}
