package aggregator

import (
	"errors"
	"math"
	"testing"

	"github.com/pable/go-tennis-metrics/internal/model"
)

const (
	nadal    = "Nadal R."
	federer  = "Federer R."
	djokovic = "Djokovic N."
	murray   = "Murray A."
)

// match builds a MatchRecord with the given set scores (winner games first).
// Set totals are derived from the scores.
func match(winner, loser, surface, round string, sets ...[2]int) model.MatchRecord {
	m := model.MatchRecord{
		Winner:     winner,
		Loser:      loser,
		Tournament: "Test Open",
		Category:   "ATP250",
		Surface:    surface,
		Round:      round,
	}
	for i, s := range sets {
		m.Sets[i] = model.SetScore{Winner: s[0], Loser: s[1], Played: true}
		if s[0] > s[1] {
			m.WinnerSets++
		} else {
			m.LoserSets++
		}
	}
	m.SetsRecorded = len(sets) > 0
	return m
}

func table(rows ...model.MatchRecord) model.MatchTable {
	return model.MatchTable{
		Source: model.Source{Circuit: model.CircuitATP, Season: 2024},
		Schema: model.Schema{CategoryColumn: "Series", HasDate: true},
		Rows:   rows,
	}
}

// scenarioTable is the Roland Garros final: Nadal d. Federer 7-6 6-3 on clay.
func scenarioTable() model.MatchTable {
	return table(match(nadal, federer, model.SurfaceClay, model.RoundFinal, [2]int{7, 6}, [2]int{6, 3}))
}

// ---- Materializer tests ----

func TestScenarioNadalFederer(t *testing.T) {
	tbl := scenarioTable()
	pt := Materialize(tbl, []string{nadal, federer})
	if len(pt.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(pt.Rows))
	}
	if pt.Rows[0].Player != nadal || pt.Rows[0].Outcome != model.OutcomeWin {
		t.Errorf("row 0 = %s/%s, want Nadal win", pt.Rows[0].Player, pt.Rows[0].Outcome)
	}
	if pt.Rows[1].Player != federer || pt.Rows[1].Outcome != model.OutcomeLoss {
		t.Errorf("row 1 = %s/%s, want Federer loss", pt.Rows[1].Player, pt.Rows[1].Outcome)
	}

	recs := Records(pt, []string{nadal, federer})
	if recs[0].Titles != 1 || recs[1].Titles != 0 {
		t.Errorf("titles = %d/%d, want 1/0", recs[0].Titles, recs[1].Titles)
	}
	bySurface := TitlesBySurface(pt.For(nadal))
	if len(bySurface) != 1 || bySurface[0].Key != model.SurfaceClay || bySurface[0].Count != 1 {
		t.Errorf("titles by surface = %+v, want [Clay 1]", bySurface)
	}
	if !tbl.Rows[0].HasTiebreak() {
		t.Error("expected tie-break in 7-6 first set")
	}
	if tbl.Rows[0].IsThreeSetter() {
		t.Error("two-set match flagged as three-setter")
	}
}

func TestMaterializeOrderAndDedup(t *testing.T) {
	tbl := table(
		match(nadal, djokovic, model.SurfaceClay, "1st Round"),
		match(federer, murray, model.SurfaceGrass, "1st Round"),
		match(djokovic, federer, model.SurfaceHard, "Semifinals"),
	)
	pt := Materialize(tbl, []string{federer, djokovic, federer})
	var got []string
	for _, r := range pt.Rows {
		got = append(got, r.Player+"/"+r.Outcome.String())
	}
	want := []string{
		federer + "/W", federer + "/L",
		djokovic + "/L", djokovic + "/W",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestMaterializePreservesMatchCount(t *testing.T) {
	tbl := table(
		match(nadal, djokovic, model.SurfaceClay, "1st Round"),
		match(djokovic, nadal, model.SurfaceClay, "The Final"),
		match(federer, murray, model.SurfaceGrass, "1st Round"),
		match(murray, nadal, model.SurfaceHard, "2nd Round"),
	)
	for _, p := range []string{nadal, djokovic, federer, murray, "Nobody X."} {
		direct := 0
		for _, m := range tbl.Rows {
			if m.Involves(p) {
				direct++
			}
		}
		rec := Records(Materialize(tbl, []string{p}), []string{p})[0]
		if rec.Matches() != direct {
			t.Errorf("%s: wins+losses = %d, want %d", p, rec.Matches(), direct)
		}
		if wr := rec.WinRate(); wr < 0 || wr > 100 || math.IsNaN(wr) {
			t.Errorf("%s: win rate %v out of range", p, wr)
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	empty := table()
	pt := Materialize(empty, []string{nadal})
	if len(pt.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(pt.Rows))
	}
	if got := Materialize(scenarioTable(), nil); len(got.Rows) != 0 {
		t.Errorf("no players requested: got %d rows", len(got.Rows))
	}
	rec := Records(pt, []string{nadal})[0]
	if rec.Matches() != 0 || rec.WinRate() != 0 {
		t.Errorf("record = %+v, want zero", rec)
	}
	if got, err := Breakdown(pt, []string{nadal}, BySurface); err != nil || len(got) != 0 {
		t.Errorf("breakdown = %v, %v", got, err)
	}
	if got := TiebreakRate(nadal, nil); got.Pct() != 0 {
		t.Errorf("tiebreak pct = %v, want 0", got.Pct())
	}
	if got := TopTiebreakPlayers(nil, model.CircuitATP); len(got) != 0 {
		t.Errorf("top tiebreak = %v", got)
	}
	if got := FavoritesBySurface(nil, FavoritesPerSurface); len(got) != 0 {
		t.Errorf("favorites = %v", got)
	}
	if got, err := RollingWinRate(pt, []string{nadal}); err != nil || len(got) != 0 {
		t.Errorf("rolling = %v, %v", got, err)
	}
	if ov := Overview(empty); ov.Matches != 0 || ov.Players != 0 {
		t.Errorf("overview = %+v", ov)
	}
}

// ---- Breakdown tests ----

func TestBreakdownFirstAppearanceOrder(t *testing.T) {
	tbl := table(
		match(nadal, djokovic, model.SurfaceClay, "1st Round"),
		match(nadal, murray, model.SurfaceHard, "1st Round"),
		match(djokovic, nadal, model.SurfaceClay, model.RoundFinal),
		match(nadal, federer, model.SurfaceClay, model.RoundFinal),
	)
	got, err := Breakdown(Materialize(tbl, []string{nadal}), []string{nadal}, BySurface)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("groups = %d, want 2", len(got))
	}
	clay := got[0]
	if clay.Key != model.SurfaceClay || clay.Matches != 3 || clay.Wins != 2 || clay.Titles != 1 {
		t.Errorf("clay = %+v", clay)
	}
	if got[1].Key != model.SurfaceHard || got[1].Matches != 1 {
		t.Errorf("hard = %+v", got[1])
	}
}

func TestBreakdownCategoryUnavailable(t *testing.T) {
	tbl := scenarioTable()
	tbl.Schema.CategoryColumn = ""
	_, err := Breakdown(Materialize(tbl, []string{nadal}), []string{nadal}, ByCategory)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
	if _, err := Breakdown(Materialize(tbl, []string{nadal}), []string{nadal}, ByTournament); err != nil {
		t.Errorf("tournament breakdown should not need category: %v", err)
	}
}

// ---- Tie-break / three-set tests ----

func TestTopTiebreakPlayersCircuitPolicy(t *testing.T) {
	gs := match(nadal, federer, model.SurfaceClay, model.RoundFinal, [2]int{7, 6}, [2]int{6, 3}, [2]int{6, 4})
	gs.Category = model.SeriesGrandSlam
	other := match(djokovic, nadal, model.SurfaceHard, "1st Round", [2]int{6, 7}, [2]int{7, 5}, [2]int{6, 2})
	noTB := match(federer, murray, model.SurfaceGrass, "1st Round", [2]int{7, 5}, [2]int{6, 4})
	rows := []model.MatchRecord{gs, other, noTB}

	atp := TopTiebreakPlayers(rows, model.CircuitATP)
	if len(atp) != 2 || atp[0].Player != djokovic || atp[1].Player != nadal {
		t.Errorf("ATP ranking = %+v, want Djokovic, Nadal with count 1", atp)
	}
	wta := TopTiebreakPlayers(rows, model.CircuitWTA)
	if len(wta) != 3 || wta[0].Player != nadal || wta[0].Count != 2 {
		t.Errorf("WTA ranking = %+v, want Nadal first with 2", wta)
	}
}

func TestTopThreeSetPlayers(t *testing.T) {
	twoOne := match(nadal, federer, model.SurfaceClay, "1st Round", [2]int{6, 4}, [2]int{3, 6}, [2]int{6, 1})
	gsTwoOne := twoOne
	gsTwoOne.Category = model.SeriesGrandSlam
	five := match(djokovic, murray, model.SurfaceHard, "1st Round",
		[2]int{6, 4}, [2]int{3, 6}, [2]int{6, 1}, [2]int{4, 6}, [2]int{6, 2})
	rows := []model.MatchRecord{twoOne, gsTwoOne, five}

	if five.IsThreeSetter() {
		t.Error("five-set match flagged as three-setter")
	}
	atp := TopThreeSetPlayers(rows, model.CircuitATP)
	if len(atp) != 2 || atp[0].Count != 1 {
		t.Errorf("ATP = %+v, want two players with 1", atp)
	}
	wta := TopThreeSetPlayers(rows, model.CircuitWTA)
	if len(wta) != 2 || wta[0].Count != 2 {
		t.Errorf("WTA = %+v, want two players with 2", wta)
	}
}

func TestRankingTopNSortedUnique(t *testing.T) {
	var rows []model.MatchRecord
	for i := 0; i < 40; i++ {
		w := string(rune('A'+i%20)) + " X."
		l := string(rune('A'+(i+7)%20)) + " Y."
		rows = append(rows, match(w, l, model.SurfaceHard, "1st Round", [2]int{7, 6}))
	}
	got := CountAppearances(rows, TopN)
	if len(got) > TopN {
		t.Fatalf("len = %d, want <= %d", len(got), TopN)
	}
	seen := make(map[string]bool)
	for i, e := range got {
		if seen[e.Player] {
			t.Errorf("duplicate player %s", e.Player)
		}
		seen[e.Player] = true
		if i > 0 {
			prev := got[i-1]
			if prev.Count < e.Count || (prev.Count == e.Count && prev.Player > e.Player) {
				t.Errorf("entries %d,%d out of order: %+v %+v", i-1, i, prev, e)
			}
		}
	}
}

func TestThreeSetRateAndAverages(t *testing.T) {
	tbl := table(
		match(nadal, federer, model.SurfaceClay, "1st Round", [2]int{6, 4}, [2]int{3, 6}, [2]int{6, 1}),
		match(nadal, murray, model.SurfaceClay, "2nd Round", [2]int{6, 4}, [2]int{6, 1}),
		match(djokovic, nadal, model.SurfaceHard, "1st Round"),
	)
	gs := match(nadal, djokovic, model.SurfaceClay, model.RoundFinal, [2]int{6, 4}, [2]int{3, 6}, [2]int{6, 1}, [2]int{6, 2})
	gs.Category = model.SeriesGrandSlam
	tbl.Rows = append(tbl.Rows, gs)

	rows := Materialize(tbl, []string{nadal}).For(nadal)
	rate := ThreeSetRate(nadal, rows)
	if rate.Count != 1 || rate.Matches != 4 || rate.Pct() != 25 {
		t.Errorf("rate = %+v", rate)
	}
	bySurface := ThreeSetsBySurface(rows)
	if len(bySurface) != 1 || bySurface[0].Key != model.SurfaceClay {
		t.Errorf("by surface = %+v", bySurface)
	}
	avg := AverageSets(nadal, rows)
	if avg.GrandSlamMatches != 1 || avg.GrandSlam != 4 {
		t.Errorf("grand slam avg = %+v", avg)
	}
	if avg.OtherMatches != 2 || avg.Other != 2.5 {
		t.Errorf("other avg = %+v", avg)
	}
	if rec := Tally(nadal, rows); rec.GrandSlamTitles != 1 {
		t.Errorf("grand slam titles = %d, want 1", rec.GrandSlamTitles)
	}
}

// ---- Rolling win rate tests ----

func TestRollingWinRate(t *testing.T) {
	a := match(nadal, federer, model.SurfaceClay, "1st Round")
	a.Date = "2024-05-20"
	b := match(djokovic, nadal, model.SurfaceClay, "2nd Round")
	b.Date = "2024-01-15"
	c := match(nadal, murray, model.SurfaceHard, "3rd Round")
	c.Date = "2024-03-02 00:00:00"
	pt := Materialize(table(a, b, c), []string{nadal})

	got, err := RollingWinRate(pt, []string{nadal})
	if err != nil {
		t.Fatal(err)
	}
	wantDates := []string{"2024-01-15", "2024-03-02", "2024-05-20"}
	wantRates := []float64{0, 50, 200.0 / 3}
	if len(got) != 3 {
		t.Fatalf("points = %d, want 3", len(got))
	}
	for i, p := range got {
		if p.Date != wantDates[i] {
			t.Errorf("point %d date = %s, want %s", i, p.Date, wantDates[i])
		}
		if math.Abs(p.WinRate-wantRates[i]) > 1e-9 {
			t.Errorf("point %d rate = %v, want %v", i, p.WinRate, wantRates[i])
		}
		if p.Matches != i+1 {
			t.Errorf("point %d matches = %d", i, p.Matches)
		}
	}
}

func TestRollingWinRateFailures(t *testing.T) {
	a := match(nadal, federer, model.SurfaceClay, "1st Round")
	a.Date = "2024-05-20"
	b := match(djokovic, nadal, model.SurfaceClay, "2nd Round")
	b.Date = "not a date"
	tbl := table(a, b)

	_, err := RollingWinRate(Materialize(tbl, []string{nadal}), []string{nadal})
	if !errors.Is(err, ErrDateParse) {
		t.Errorf("err = %v, want ErrDateParse", err)
	}

	tbl.Schema.HasDate = false
	_, err = RollingWinRate(Materialize(tbl, []string{federer}), []string{federer})
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

// ---- Radar tests ----

func TestRadarSinglePlayerNoop(t *testing.T) {
	pt := Materialize(scenarioTable(), []string{nadal})
	if got := RadarScores(pt, []string{nadal}); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
	if got := RadarScores(pt, []string{nadal, nadal}); got != nil {
		t.Errorf("duplicate player should still be a no-op, got %+v", got)
	}
}

func TestRadarScores(t *testing.T) {
	tbl := table(
		match(nadal, federer, model.SurfaceClay, model.RoundFinal),
		match(nadal, djokovic, model.SurfaceClay, model.RoundFinal),
		match(federer, nadal, model.SurfaceGrass, model.RoundFinal),
		match(federer, djokovic, model.SurfaceHard, "1st Round"),
	)
	players := []string{nadal, federer}
	got := RadarScores(Materialize(tbl, players), players)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	n, f := got[0], got[1]
	if n.Titles != 100 || f.Titles != 50 {
		t.Errorf("titles = %v/%v, want 100/50", n.Titles, f.Titles)
	}
	if n.Clay != 100 || n.Grass != 0 || n.Hard != 0 {
		t.Errorf("nadal surfaces = %+v", n)
	}
	if f.Hard != 100 || f.Clay != 0 {
		t.Errorf("federer surfaces = %+v", f)
	}
}

func TestRadarNoTitles(t *testing.T) {
	tbl := table(match(nadal, federer, model.SurfaceClay, "1st Round"))
	players := []string{nadal, federer}
	for _, s := range RadarScores(Materialize(tbl, players), players) {
		if s.Titles != 0 || math.IsNaN(s.Titles) {
			t.Errorf("%s titles = %v, want 0", s.Player, s.Titles)
		}
	}
}

// ---- Favorites tests ----

func TestFavoritesBySurface(t *testing.T) {
	rows := []model.MatchRecord{
		match(nadal, federer, model.SurfaceClay, "1st Round"),
		match(nadal, djokovic, model.SurfaceClay, "2nd Round"),
		match(djokovic, nadal, model.SurfaceClay, "3rd Round"),
		match(federer, murray, model.SurfaceGrass, "1st Round"),
		match(murray, federer, model.SurfaceGrass, "2nd Round"),
	}
	got := FavoritesBySurface(rows, FavoritesPerSurface)
	if len(got) != 2 || got[0].Surface != model.SurfaceClay || got[1].Surface != model.SurfaceGrass {
		t.Fatalf("surfaces = %+v", got)
	}
	clay := got[0].Entries
	if clay[0].Player != nadal || clay[0].Count != 2 || clay[1].Player != djokovic {
		t.Errorf("clay = %+v", clay)
	}
	grass := got[1].Entries
	if grass[0].Player != federer || grass[1].Player != murray {
		t.Errorf("grass tie order = %+v, want alphabetical", grass)
	}
	if got := FavoritesBySurface(rows, 1); len(got[0].Entries) != 1 {
		t.Errorf("limit not applied: %+v", got[0].Entries)
	}
}

func TestOverview(t *testing.T) {
	a := match(nadal, federer, model.SurfaceClay, "1st Round", [2]int{6, 4}, [2]int{6, 4})
	a.Date = "2024-05-20"
	b := match(djokovic, nadal, model.SurfaceClay, "2nd Round")
	b.Date = "2024-01-15"
	b.Tournament = "Rome"
	ov := Overview(table(a, b))
	if ov.Matches != 2 || ov.Players != 3 || ov.Tournaments != 2 {
		t.Errorf("overview = %+v", ov)
	}
	if ov.EarliestDate != "2024-01-15" || ov.LatestDate != "2024-05-20" {
		t.Errorf("date range = %s..%s", ov.EarliestDate, ov.LatestDate)
	}
	if ov.IncompleteScore != 1 {
		t.Errorf("incomplete = %d, want 1", ov.IncompleteScore)
	}
	if len(ov.SurfaceCounts) != 1 || ov.SurfaceCounts[0].Count != 2 {
		t.Errorf("surface counts = %+v", ov.SurfaceCounts)
	}
}
