package storage

import (
	"testing"

	"github.com/pable/go-tennis-metrics/internal/model"
)

func sampleMatch() model.MatchRecord {
	return model.MatchRecord{
		Winner: "Nadal R.", Loser: "Federer R.",
		Surface: "Clay", Category: "Grand Slam", Round: "The Final",
		Sets: [model.MaxSets]model.SetScore{
			{Winner: 7, Loser: 6, Played: true},
			{Winner: 6, Loser: 3, Played: true},
		},
		WinnerSets: 2, LoserSets: 0, SetsRecorded: true,
	}
}

func TestPredicateMatch(t *testing.T) {
	m := sampleMatch()
	cases := []struct {
		name string
		p    Predicate
		want bool
	}{
		{"player winner", Players("Nadal R."), true},
		{"player loser", Players("Federer R."), true},
		{"player absent", Players("Murray A."), false},
		{"player empty", Players(), false},
		{"surface hit", Surface("Clay"), true},
		{"surface miss", Surface("Hard"), false},
		{"category hit", Category("Grand Slam"), true},
		{"category miss", Category("ATP250"), false},
		{"tiebreak", Tiebreaks(), true},
		{"three sets", ThreeSets(), false},
		{"two-one", TwoOne(), false},
		{"exclude slam", NotSeries("Grand Slam"), false},
		{"exclude other", NotSeries("Masters 1000"), true},
	}
	for _, c := range cases {
		if got := c.p.Match(m); got != c.want {
			t.Errorf("%s: want %v, got %v", c.name, c.want, got)
		}
	}
}

func TestFilterConjunction(t *testing.T) {
	m := sampleMatch()
	if !(Filter{}).Match(m) {
		t.Error("empty filter must match everything")
	}
	if !(Filter{Players("Nadal R."), Surface("Clay")}).Match(m) {
		t.Error("expected both predicates to hold")
	}
	if (Filter{Players("Nadal R."), Surface("Grass")}).Match(m) {
		t.Error("one failing predicate must reject the row")
	}
}

func TestFilterKeyCanonical(t *testing.T) {
	a := Filter{Players("B", "A"), Surface("Clay")}
	b := Filter{Surface("Clay"), Players("A", "B")}
	if a.Key() != b.Key() {
		t.Errorf("keys differ for equivalent filters: %q vs %q", a.Key(), b.Key())
	}
	c := Filter{Players("A", "B"), Surface("Grass")}
	if a.Key() == c.Key() {
		t.Error("different filters must not share a key")
	}
}

func TestFilterPlayersUnion(t *testing.T) {
	f := Filter{Players("B", "A"), Surface("Clay"), Players("A", "C")}
	got := f.Players()
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
}
