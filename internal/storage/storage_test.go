package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-tennis-metrics/internal/model"
)

var atp2024 = model.Source{Circuit: model.CircuitATP, Season: 2024}

const atpCSV = `ATP,Location,Tournament,Date,Series,Court,Surface,Round,Best of,Winner,Loser,W1,L1,W2,L2,W3,L3,W4,L4,W5,L5,Wsets,Lsets,Comment,B365W
1,Paris,Roland Garros,2024-06-09,Grand Slam,Outdoor,Clay,The Final,5,Nadal R.,Federer R.,7,6,6,3,6,4,,,,,3,0,Completed,1.5
2,Rome,Internazionali BNL d'Italia,2024-05-19,Masters 1000,Outdoor,Clay,Semifinals,3,Djokovic N.,Nadal R.,6,4,3,6,7,5,,,,,2,1,Completed,1.8
3,Halle,Halle Open,2024-06-23,ATP500,Outdoor,Grass,The Final,3,Federer R.,Djokovic N.,6,7,7,6,6,2,,,,,2,1,Completed,2.1
4,Doha,Qatar Open,2024-01-10,ATP250,Outdoor,Hard,1st Round,3,Murray A.,Murray A.,6,1,6,1,,,,,,,2,0,Completed,1.1
`

func newTestAccessor(t *testing.T, cacheSize int) *Accessor {
	t.Helper()
	return NewAccessor(t.TempDir(), Options{CacheSize: cacheSize, CacheTTL: time.Minute, Logger: zerolog.Nop()})
}

func importCSV(t *testing.T, a *Accessor, src model.Source, body string) {
	t.Helper()
	if _, err := a.ImportCSV(context.Background(), src, strings.NewReader(body)); err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
}

func TestFetchMissingSource(t *testing.T) {
	a := newTestAccessor(t, 0)

	table, err := a.Fetch(context.Background(), atp2024, nil)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("expected empty table, got %d rows", len(table.Rows))
	}
	if table.Source != atp2024 {
		t.Errorf("empty table should still carry its source, got %v", table.Source)
	}
	if a.Exists(atp2024) {
		t.Error("Fetch must not create a database for a missing source")
	}
}

func TestImportAndFetchAll(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, atp2024, atpCSV)

	table, err := a.Fetch(context.Background(), atp2024, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The Murray A. row has winner == loser and is rejected.
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if table.Schema.CategoryColumn != "Series" {
		t.Errorf("category column: want Series, got %q", table.Schema.CategoryColumn)
	}
	if !table.Schema.HasDate {
		t.Error("expected HasDate=true")
	}

	first := table.Rows[0]
	if first.Winner != "Nadal R." || first.Loser != "Federer R." {
		t.Errorf("unexpected players %q vs %q", first.Winner, first.Loser)
	}
	if first.Category != "Grand Slam" || first.Surface != "Clay" || first.Round != "The Final" {
		t.Errorf("unexpected metadata: %+v", first)
	}
	if first.Date != "2024-06-09" {
		t.Errorf("date: want 2024-06-09, got %q", first.Date)
	}
	if !first.Sets[0].Played || first.Sets[0].Winner != 7 || first.Sets[0].Loser != 6 {
		t.Errorf("set 1: got %+v", first.Sets[0])
	}
	if first.Sets[3].Played || first.Sets[4].Played {
		t.Error("empty W4/L4 and W5/L5 cells must be absent sets, not 0-0")
	}
	if !first.SetsRecorded || first.WinnerSets != 3 || first.LoserSets != 0 {
		t.Errorf("set totals: got %d-%d recorded=%v", first.WinnerSets, first.LoserSets, first.SetsRecorded)
	}
}

func TestFetchPlayerFilter(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, atp2024, atpCSV)

	table, err := a.Fetch(context.Background(), atp2024, Filter{Players("Federer R.")})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 Federer matches, got %d", len(table.Rows))
	}
	for _, m := range table.Rows {
		if !m.Involves("Federer R.") {
			t.Errorf("row does not involve Federer: %+v", m)
		}
	}

	table, err = a.Fetch(context.Background(), atp2024, Filter{Players("Federer R."), Surface("Grass")})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].Tournament != "Halle Open" {
		t.Errorf("expected only Halle, got %+v", table.Rows)
	}

	table, err = a.Fetch(context.Background(), atp2024, Filter{Players()})
	if err != nil {
		t.Fatalf("Fetch empty player set: %v", err)
	}
	if len(table.Rows) != 0 {
		t.Errorf("empty player set must yield no rows, got %d", len(table.Rows))
	}
}

func TestFetchPaddedPlayerNames(t *testing.T) {
	a := newTestAccessor(t, 0)
	db, err := a.openWrite(atp2024)
	if err != nil {
		t.Fatalf("openWrite: %v", err)
	}
	defer db.Close()
	stmts := []string{
		`CREATE TABLE data (Tournament TEXT, Surface TEXT, Round TEXT, Winner TEXT, Loser TEXT)`,
		`INSERT INTO data VALUES ('Roland Garros', 'Clay', 'The Final', 'Nadal R. ', ' Federer R.')`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			t.Fatalf("%s: %v", q, err)
		}
	}

	all, err := a.Fetch(context.Background(), atp2024, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(all.Rows) != 1 || all.Rows[0].Winner != "Nadal R." {
		t.Fatalf("unfiltered fetch: got %+v", all.Rows)
	}

	for _, name := range []string{"Nadal R.", "Federer R."} {
		table, err := a.Fetch(context.Background(), atp2024, Filter{Players(name)})
		if err != nil {
			t.Fatalf("Fetch %s: %v", name, err)
		}
		if len(table.Rows) != 1 {
			t.Errorf("%s: expected 1 row, got %d", name, len(table.Rows))
		}
	}
}

func TestSourceFileLowerCase(t *testing.T) {
	a := newTestAccessor(t, 0)
	if !strings.HasSuffix(a.Path(atp2024), "atp_2024.db") {
		t.Fatalf("path: got %s", a.Path(atp2024))
	}
	importCSV(t, a, atp2024, atpCSV)
	if _, err := os.Stat(a.Dir() + "/atp_2024.db"); err != nil {
		t.Fatalf("import should write atp_2024.db: %v", err)
	}
	list, err := a.ListSources()
	if err != nil || len(list) != 1 || list[0].Source != atp2024 {
		t.Errorf("ListSources: got %+v %v", list, err)
	}
}

func TestFetchTiebreakAndSeriesFilter(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, atp2024, atpCSV)

	table, err := a.Fetch(context.Background(), atp2024, Filter{Tiebreaks(), NotSeries(model.SeriesGrandSlam)})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].Tournament != "Halle Open" {
		t.Errorf("expected only Halle (tie-break, not a slam), got %+v", table.Rows)
	}
}

func TestFetchCategoryProbe(t *testing.T) {
	a := newTestAccessor(t, 0)
	wta := model.Source{Circuit: model.CircuitWTA, Season: 2023}
	importCSV(t, a, wta, "Tournament,Tier,Surface,Round,Winner,Loser,W1,L1,W2,L2,Wsets,Lsets\n"+
		"Wimbledon,Grand Slam,Grass,The Final,Vondrousova M.,Jabeur O.,6,4,6,4,2,0\n")

	table, err := a.Fetch(context.Background(), wta, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if table.Schema.CategoryColumn != "Tier" {
		t.Errorf("want Tier, got %q", table.Schema.CategoryColumn)
	}
	if table.Schema.HasDate {
		t.Error("expected HasDate=false without a Date column")
	}
	if table.Rows[0].Category != "Grand Slam" {
		t.Errorf("category value: got %q", table.Rows[0].Category)
	}

	bare := model.Source{Circuit: model.CircuitWTA, Season: 2022}
	importCSV(t, a, bare, "Winner,Loser,Surface\nSwiatek I.,Gauff C.,Clay\n")
	table, err = a.Fetch(context.Background(), bare, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if table.Schema.CategoryColumn != "" {
		t.Errorf("expected no category column, got %q", table.Schema.CategoryColumn)
	}
	if table.Rows[0].SetsRecorded || table.Rows[0].Sets[0].Played {
		t.Error("missing set columns must leave sets absent")
	}
}

func TestResolveCategoryColumnPreference(t *testing.T) {
	cols := map[string]string{"tier": "Tier", "level": "Level", "winner": "Winner"}
	got, ok := ResolveCategoryColumn(cols)
	if !ok || got != "Level" {
		t.Errorf("want Level (earlier in preference than Tier), got %q ok=%v", got, ok)
	}
	if _, ok := ResolveCategoryColumn(map[string]string{"winner": "Winner"}); ok {
		t.Error("expected no category column")
	}
}

func TestFetchCacheAndInvalidate(t *testing.T) {
	a := newTestAccessor(t, 16)
	importCSV(t, a, atp2024, atpCSV)

	if _, err := a.Fetch(context.Background(), atp2024, Filter{Players("Nadal R.")}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if a.CacheLen() != 1 {
		t.Fatalf("expected 1 cached result, got %d", a.CacheLen())
	}

	// Remove the file behind the cache's back: the cached result is still served.
	if err := os.Remove(a.Path(atp2024)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	table, err := a.Fetch(context.Background(), atp2024, Filter{Players("Nadal R.")})
	if err != nil || len(table.Rows) != 2 {
		t.Fatalf("expected cached 2 rows, got %d (err=%v)", len(table.Rows), err)
	}

	if n := a.Invalidate(atp2024); n != 1 {
		t.Errorf("Invalidate: want 1 removed, got %d", n)
	}
	if _, err := a.Fetch(context.Background(), atp2024, Filter{Players("Nadal R.")}); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("after invalidation expected ErrSourceUnavailable, got %v", err)
	}
}

func TestImportInvalidatesCache(t *testing.T) {
	a := newTestAccessor(t, 16)
	importCSV(t, a, atp2024, atpCSV)
	if _, err := a.Fetch(context.Background(), atp2024, nil); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	importCSV(t, a, atp2024, "Winner,Loser\nAlcaraz C.,Sinner J.\n")

	table, err := a.Fetch(context.Background(), atp2024, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0].Winner != "Alcaraz C." {
		t.Errorf("expected re-imported table, got %+v", table.Rows)
	}
}

func TestImportRequiresPlayers(t *testing.T) {
	a := newTestAccessor(t, 0)
	_, err := a.ImportCSV(context.Background(), atp2024, strings.NewReader("Tournament,Surface\nX,Clay\n"))
	if err == nil {
		t.Fatal("expected error for csv without Winner/Loser")
	}
}

func TestListSources(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, model.Source{Circuit: model.CircuitWTA, Season: 2024}, atpCSV)
	importCSV(t, a, model.Source{Circuit: model.CircuitATP, Season: 2024}, atpCSV)
	importCSV(t, a, model.Source{Circuit: model.CircuitATP, Season: 2023}, atpCSV)
	if err := os.WriteFile(a.Dir()+"/notes.txt", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	list, err := a.ListSources()
	if err != nil {
		t.Fatalf("ListSources: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(list))
	}
	want := []string{"ATP 2023", "ATP 2024", "WTA 2024"}
	for i, w := range want {
		if list[i].Source.String() != w {
			t.Errorf("source %d: want %s, got %s", i, w, list[i].Source)
		}
	}

	missing := NewAccessor(a.Dir()+"/nope", Options{Logger: zerolog.Nop()})
	list, err = missing.ListSources()
	if err != nil || len(list) != 0 {
		t.Errorf("missing dir: want no sources and no error, got %v %v", list, err)
	}
}

func TestQueryRaw(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, atp2024, atpCSV)

	cols, rows, err := a.QueryRaw(context.Background(), atp2024, "SELECT Winner, W4 FROM data ORDER BY rowid LIMIT 1")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if len(cols) != 2 || cols[0] != "Winner" {
		t.Errorf("unexpected columns %v", cols)
	}
	if len(rows) != 1 || rows[0][0] != "Nadal R." || rows[0][1] != "NULL" {
		t.Errorf("unexpected rows %v", rows)
	}

	if _, _, err := a.QueryRaw(context.Background(), atp2024, "DELETE FROM data"); err == nil {
		t.Error("expected read-only connection to refuse DELETE")
	}
}

func TestDrop(t *testing.T) {
	a := newTestAccessor(t, 0)
	importCSV(t, a, atp2024, atpCSV)

	if err := a.Drop(atp2024); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if a.Exists(atp2024) {
		t.Error("database still exists after Drop")
	}
	if err := a.Drop(atp2024); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("second Drop: want ErrSourceUnavailable, got %v", err)
	}
}
