package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/config"
	"github.com/pable/go-tennis-metrics/internal/logger"
	"github.com/pable/go-tennis-metrics/internal/model"
	"github.com/pable/go-tennis-metrics/internal/storage"
)

var (
	configPath  string
	dataDir     string
	season      int
	circuitName string
	logLevel    string
)

// Resolved in PersistentPreRunE.
var (
	cfg   config.Config
	log   zerolog.Logger
	store *storage.Accessor
)

// fetchTimeout bounds every database read made by a command.
var fetchTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:               "tennismetrics",
	Short:             "ATP/WTA season statistics",
	Long:              "Compute player win rates, titles, surface splits, tie-break and three-set frequency from per-season match databases.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding <circuit>_<season>.db files (overrides config)")
	rootCmd.PersistentFlags().IntVar(&season, "season", 2024, "season year")
	rootCmd.PersistentFlags().StringVar(&circuitName, "circuit", "atp", "circuit: atp or wta")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(tiebreaksCmd)
	rootCmd.AddCommand(threesetsCmd)
	rootCmd.AddCommand(liveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
}

// setup loads configuration and builds the logger and the match store.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dataDir != "" {
		c.DataDir = dataDir
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	cfg = c
	log = logger.New(cfg.LogLevel)
	store = storage.NewAccessor(cfg.DataDir, storage.Options{
		CacheSize: cfg.Cache.Size,
		CacheTTL:  cfg.Cache.TTL.Duration,
		Logger:    log,
	})
	log.Debug().Str("data_dir", cfg.DataDir).Int("cache_size", cfg.Cache.Size).Msg("configuration loaded")
	return nil
}

// currentSource returns the source selected by --circuit and --season.
func currentSource() (model.Source, error) {
	c, err := model.ParseCircuit(circuitName)
	if err != nil {
		return model.Source{}, err
	}
	if season < 1968 || season > 2100 {
		return model.Source{}, fmt.Errorf("season %d out of range", season)
	}
	return model.Source{Circuit: c, Season: season}, nil
}

// loadTable fetches src. A missing or unreadable source is reported on
// stderr and yields an empty table so every statistic renders as "no data".
func loadTable(ctx context.Context, src model.Source, f storage.Filter) (model.MatchTable, error) {
	ctx, cancel := withTimeout(ctx, fetchTimeout)
	defer cancel()
	t, err := store.Fetch(ctx, src, f)
	if errors.Is(err, storage.ErrSourceUnavailable) {
		fmt.Fprintf(os.Stderr, "No data for %s. Run 'tennismetrics import <file.csv> --circuit %s --season %d' first.\n",
			src, src.Circuit, src.Season)
		return t, nil
	}
	return t, err
}

// playerFilter builds the fetch filter for the given players plus the
// optional surface/category restrictions.
func playerFilter(players []string, surface, category string) storage.Filter {
	f := storage.Filter{storage.Players(players...)}
	if surface != "" {
		f = append(f, storage.Surface(surface))
	}
	if category != "" {
		f = append(f, storage.Category(category))
	}
	return f
}

// splitPlayers accepts one name per argument or comma-separated lists,
// trims names and drops empties and repeats. Names keep their inner spaces
// ("Nadal R.").
func splitPlayers(args []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range args {
		for _, p := range strings.Split(a, ",") {
			p = strings.TrimSpace(p)
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// withTimeout bounds a command's blocking calls. Non-positive durations
// fall back to 30s.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(ctx, d)
}
