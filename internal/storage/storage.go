package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// ErrSourceUnavailable is returned when a season/circuit database is missing
// or unreadable. Callers treat it as "no data".
var ErrSourceUnavailable = errors.New("source unavailable")

// tableName is the match table inside every season database.
const tableName = "data"

// Options configures an Accessor.
type Options struct {
	// CacheSize is the number of fetch results kept. 0 disables caching.
	CacheSize int
	// CacheTTL bounds how long a cached result is served. 0 means results
	// only leave the cache through eviction or an explicit bust.
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// Accessor reads match tables from per-season SQLite files under a data
// directory and memoizes fetch results keyed by (source file, filter).
//
// Cached tables are shared between callers and must be treated as read-only.
type Accessor struct {
	dir   string
	cache *expirable.LRU[string, model.MatchTable]
	log   zerolog.Logger
}

// NewAccessor returns an accessor rooted at dir.
func NewAccessor(dir string, opts Options) *Accessor {
	a := &Accessor{dir: dir, log: opts.Logger}
	if opts.CacheSize > 0 {
		a.cache = expirable.NewLRU[string, model.MatchTable](opts.CacheSize, nil, opts.CacheTTL)
	}
	return a
}

// Dir returns the data directory.
func (a *Accessor) Dir() string { return a.dir }

// Path returns the database file for src.
func (a *Accessor) Path(src model.Source) string {
	return filepath.Join(a.dir, src.FileName())
}

// Exists reports whether the database file for src is present.
func (a *Accessor) Exists(src model.Source) bool {
	_, err := os.Stat(a.Path(src))
	return err == nil
}

// Invalidate drops every cached result for src and returns how many were removed.
func (a *Accessor) Invalidate(src model.Source) int {
	if a.cache == nil {
		return 0
	}
	prefix := a.Path(src) + "|"
	n := 0
	for _, k := range a.cache.Keys() {
		if strings.HasPrefix(k, prefix) && a.cache.Remove(k) {
			n++
		}
	}
	if n > 0 {
		a.log.Debug().Str("source", src.String()).Int("entries", n).Msg("cache invalidated")
	}
	return n
}

// Purge empties the cache.
func (a *Accessor) Purge() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

// CacheLen returns the number of cached results.
func (a *Accessor) CacheLen() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

// openRead opens an existing source read-only. sql.Open would otherwise
// create an empty database for a missing file.
func (a *Accessor) openRead(src model.Source) (*sql.DB, error) {
	path := a.Path(src)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src, err)
	}
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src, err)
	}
	return conn, nil
}

// openWrite opens (or creates) the database for src.
func (a *Accessor) openWrite(src model.Source) (*sql.DB, error) {
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", a.Path(src))
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return conn, nil
}
