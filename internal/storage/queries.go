package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// CategoryCandidates is the ordered preference list for the tournament tier
// column. ATP files use Series, WTA files use Tier.
var CategoryCandidates = []string{"Series", "Level", "Category", "Tier"}

// Fetch returns the rows of src matching f. A missing or unreadable source
// yields an empty table together with an error wrapping ErrSourceUnavailable,
// so callers can render "no data" and keep going.
func (a *Accessor) Fetch(ctx context.Context, src model.Source, f Filter) (model.MatchTable, error) {
	empty := model.MatchTable{Source: src}
	key := a.Path(src) + "|" + f.Key()
	if a.cache != nil {
		if t, ok := a.cache.Get(key); ok {
			return t, nil
		}
	}

	db, err := a.openRead(src)
	if err != nil {
		a.log.Warn().Str("source", src.String()).Err(err).Msg("match source unavailable")
		return empty, err
	}
	defer db.Close()

	t, err := fetchMatches(ctx, db, f, a.log)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return empty, ctxErr
		}
		a.log.Warn().Str("source", src.String()).Err(err).Msg("match source unreadable")
		return empty, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, src, err)
	}
	t.Source = src
	if a.cache != nil {
		a.cache.Add(key, t)
	}
	return t, nil
}

// fetchMatches probes the table's columns, selects the ones the engine
// understands and applies f. Only PlayerIn is pushed down into SQL; every
// predicate is then re-checked in Go.
func fetchMatches(ctx context.Context, db *sql.DB, f Filter, log zerolog.Logger) (model.MatchTable, error) {
	var out model.MatchTable
	if f.hasEmptyPlayerIn() {
		return out, nil
	}

	cols, err := tableColumns(ctx, db)
	if err != nil {
		return out, err
	}
	if len(cols) == 0 {
		return out, fmt.Errorf("table %q not found", tableName)
	}
	winnerCol, okW := cols["winner"]
	loserCol, okL := cols["loser"]
	if !okW || !okL {
		return out, fmt.Errorf("table %q lacks Winner/Loser columns", tableName)
	}

	out.Schema = resolveSchema(cols)
	names := selectColumns(cols, out.Schema)

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), quoteIdent(tableName))

	var args []interface{}
	if players := f.Players(); len(players) > 0 {
		ph := placeholders(len(players))
		// Names are trimmed on read, so compare trimmed cells.
		query += fmt.Sprintf(" WHERE TRIM(%s) IN (%s) OR TRIM(%s) IN (%s)", quoteIdent(winnerCol), ph, quoteIdent(loserCol), ph)
		for _, p := range players {
			args = append(args, p)
		}
		for _, p := range players {
			args = append(args, p)
		}
	}
	query += " ORDER BY rowid"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return out, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	vals := make([]interface{}, len(names))
	ptrs := make([]interface{}, len(names))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	rejected := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return out, fmt.Errorf("scan match: %w", err)
		}
		m := recordFrom(names, vals, out.Schema)
		if err := m.Validate(); err != nil {
			rejected++
			log.Debug().Err(err).Str("tournament", m.Tournament).Msg("row rejected")
			continue
		}
		if !f.Match(m) {
			continue
		}
		out.Rows = append(out.Rows, m)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	if rejected > 0 {
		log.Warn().Int("rows", rejected).Msg("rejected rows without two distinct players")
	}
	return out, nil
}

// tableColumns maps lower-cased column names to their declared spelling.
func tableColumns(ctx context.Context, db *sql.DB) (map[string]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, fmt.Errorf("probe columns: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]string)
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("probe columns: %w", err)
		}
		cols[strings.ToLower(name)] = name
	}
	return cols, rows.Err()
}

// ResolveCategoryColumn returns the first candidate present in cols, matched
// case-insensitively, or false when none is.
func ResolveCategoryColumn(cols map[string]string) (string, bool) {
	for _, c := range CategoryCandidates {
		if name, ok := cols[strings.ToLower(c)]; ok {
			return name, true
		}
	}
	return "", false
}

func resolveSchema(cols map[string]string) model.Schema {
	var s model.Schema
	if name, ok := ResolveCategoryColumn(cols); ok {
		s.CategoryColumn = name
	}
	_, s.HasDate = cols["date"]
	return s
}

// baseColumns are read when present; Winner and Loser are always present.
var baseColumns = []string{"Winner", "Loser", "Tournament", "Surface", "Round", "Date", "Wsets", "Lsets"}

func selectColumns(cols map[string]string, schema model.Schema) []string {
	var names []string
	add := func(c string) {
		if name, ok := cols[strings.ToLower(c)]; ok {
			names = append(names, name)
		}
	}
	for _, c := range baseColumns {
		add(c)
	}
	if schema.CategoryColumn != "" {
		names = append(names, schema.CategoryColumn)
	}
	for i := 1; i <= model.MaxSets; i++ {
		add(fmt.Sprintf("W%d", i))
		add(fmt.Sprintf("L%d", i))
	}
	return names
}

type optInt struct {
	n  int
	ok bool
}

// recordFrom assembles a MatchRecord from one scanned row. A set counts as
// played only when both its W and L cells are present.
func recordFrom(names []string, vals []interface{}, schema model.Schema) model.MatchRecord {
	var (
		m        model.MatchRecord
		wg, lg   [model.MaxSets]optInt
		ws, ls   optInt
		category = strings.ToLower(schema.CategoryColumn)
	)
	for i, name := range names {
		v := vals[i]
		lower := strings.ToLower(name)
		switch lower {
		case "winner":
			m.Winner = asString(v)
		case "loser":
			m.Loser = asString(v)
		case "tournament":
			m.Tournament = asString(v)
		case "surface":
			m.Surface = asString(v)
		case "round":
			m.Round = asString(v)
		case "date":
			m.Date = asString(v)
		case "wsets":
			ws.n, ws.ok = asInt(v)
		case "lsets":
			ls.n, ls.ok = asInt(v)
		case category:
			m.Category = asString(v)
		default:
			side, idx, ok := setColumn(lower)
			if !ok {
				continue
			}
			n, present := asInt(v)
			if side == 'w' {
				wg[idx] = optInt{n, present}
			} else {
				lg[idx] = optInt{n, present}
			}
		}
	}
	for i := 0; i < model.MaxSets; i++ {
		if wg[i].ok && lg[i].ok {
			m.Sets[i] = model.SetScore{Winner: wg[i].n, Loser: lg[i].n, Played: true}
		}
	}
	if ws.ok && ls.ok {
		m.WinnerSets, m.LoserSets, m.SetsRecorded = ws.n, ls.n, true
	}
	return m
}

// setColumn parses "w3"/"l3" into ('w', 2).
func setColumn(lower string) (byte, int, bool) {
	if len(lower) != 2 || (lower[0] != 'w' && lower[0] != 'l') {
		return 0, 0, false
	}
	idx := int(lower[1] - '1')
	if idx < 0 || idx >= model.MaxSets {
		return 0, 0, false
	}
	return lower[0], idx, true
}

func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case []byte:
		return strings.TrimSpace(string(x))
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func asInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return int(math.Round(x)), true
	case string, []byte:
		s := asString(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

// SourceInfo describes one database file found in the data directory.
type SourceInfo struct {
	Source  model.Source
	Path    string
	Size    int64
	ModTime time.Time
}

var sourceFileRe = regexp.MustCompile(`^(atp|wta)_(\d{4})\.db$`)

// ListSources returns the season databases present in the data directory,
// sorted by circuit then season. A missing directory yields no sources.
func (a *Accessor) ListSources() ([]SourceInfo, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []SourceInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := sourceFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		season, _ := strconv.Atoi(m[2])
		info, err := e.Info()
		if err != nil {
			continue
		}
		src := model.Source{Circuit: model.Circuit(m[1]), Season: season}
		out = append(out, SourceInfo{
			Source:  src,
			Path:    a.Path(src),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source.Circuit != out[j].Source.Circuit {
			return out[i].Source.Circuit < out[j].Source.Circuit
		}
		return out[i].Source.Season < out[j].Source.Season
	})
	return out, nil
}

// QueryRaw runs an arbitrary read-only query against src and returns column
// names and stringified rows. NULL cells render as "NULL".
func (a *Accessor) QueryRaw(ctx context.Context, src model.Source, query string) ([]string, [][]string, error) {
	db, err := a.openRead(src)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	vals := make([]interface{}, len(cols))
	ptrs := make([]interface{}, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	var out [][]string
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v == nil {
				row[i] = "NULL"
				continue
			}
			row[i] = asString(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

// Drop deletes the database file for src and busts its cache entries.
func (a *Accessor) Drop(src model.Source) error {
	a.Invalidate(src)
	if err := os.Remove(a.Path(src)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceUnavailable, src)
		}
		return fmt.Errorf("remove database: %w", err)
	}
	return nil
}
