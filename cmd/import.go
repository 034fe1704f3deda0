package cmd

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/aggregator"
	"github.com/pable/go-tennis-metrics/internal/report"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import <matches.csv>",
	Short: "Load a tennis-data.co.uk season CSV into the --circuit/--season database",
	Long: `Create (or replace) the match table for the selected circuit and season from a
CSV file with a header row. Known columns (Winner, Loser, Tournament, Series,
Surface, Round, Date, W1..L5, Wsets, Lsets, ...) are kept; betting odds and
other extras are dropped. Spreadsheets must be saved as CSV first.
Files ending in .gz, .bz2 or .zst are decompressed on the fly.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	src, err := currentSource()
	if err != nil {
		return err
	}
	r, err := openImport(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintf(os.Stdout, "Importing %s into %s...\n", args[0], store.Path(src))
	n, err := store.ImportCSV(cmd.Context(), src, r)
	if err != nil {
		return fmt.Errorf("import %s: %w", src, err)
	}

	t, err := store.Fetch(cmd.Context(), src, storage.Filter{})
	if err != nil {
		return fmt.Errorf("read back %s: %w", src, err)
	}
	fmt.Fprintf(os.Stdout, "Stored %d rows (%d usable matches).\n", n, len(t.Rows))
	report.PrintOverview(os.Stdout, aggregator.Overview(t))
	return nil
}

type decompressed struct {
	io.Reader
	closers []func() error
}

func (d *decompressed) Close() error {
	var first error
	for _, c := range d.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openImport opens a CSV file, decompressing gzip, bzip2 or zstd by suffix.
func openImport(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	switch {
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &decompressed{Reader: dec, closers: []func() error{func() error { dec.Close(); return nil }, f.Close}}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &decompressed{Reader: gz, closers: []func() error{gz.Close, f.Close}}, nil
	case strings.HasSuffix(path, ".bz2"):
		return &decompressed{Reader: bzip2.NewReader(f), closers: []func() error{f.Close}}, nil
	}
	return f, nil
}
