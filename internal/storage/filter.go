package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// PredicateKind tags a Predicate.
type PredicateKind int

const (
	PlayerIn PredicateKind = iota
	SurfaceIs
	CategoryIs
	TiebreakOnly
	ThreeSetOnly
	TwoOneOnly
	ExcludeSeries
)

func (k PredicateKind) String() string {
	switch k {
	case PlayerIn:
		return "player_in"
	case SurfaceIs:
		return "surface"
	case CategoryIs:
		return "category"
	case TiebreakOnly:
		return "tiebreak_only"
	case ThreeSetOnly:
		return "three_set_only"
	case TwoOneOnly:
		return "two_one_only"
	case ExcludeSeries:
		return "exclude_series"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Predicate is one filter criterion. Values is only used by PlayerIn,
// SurfaceIs, CategoryIs and ExcludeSeries.
type Predicate struct {
	Kind   PredicateKind
	Values []string
}

// Match evaluates the predicate against a single row.
func (p Predicate) Match(m model.MatchRecord) bool {
	switch p.Kind {
	case PlayerIn:
		for _, v := range p.Values {
			if m.Involves(v) {
				return true
			}
		}
		return false
	case SurfaceIs:
		return len(p.Values) > 0 && m.Surface == p.Values[0]
	case CategoryIs:
		return len(p.Values) > 0 && m.Category == p.Values[0]
	case TiebreakOnly:
		return m.HasTiebreak()
	case ThreeSetOnly:
		return m.IsThreeSetter()
	case TwoOneOnly:
		return m.IsTwoOne()
	case ExcludeSeries:
		return len(p.Values) == 0 || m.Category != p.Values[0]
	default:
		return false
	}
}

// Players restricts rows to matches involving any of the given players.
func Players(ids ...string) Predicate { return Predicate{Kind: PlayerIn, Values: ids} }

// Surface keeps matches played on surface.
func Surface(s string) Predicate { return Predicate{Kind: SurfaceIs, Values: []string{s}} }

// Category keeps matches whose series/category equals c.
func Category(c string) Predicate { return Predicate{Kind: CategoryIs, Values: []string{c}} }

// Tiebreaks keeps matches with at least one 7-6 set.
func Tiebreaks() Predicate { return Predicate{Kind: TiebreakOnly} }

// ThreeSets keeps matches where exactly three sets were played.
func ThreeSets() Predicate { return Predicate{Kind: ThreeSetOnly} }

// TwoOne keeps matches won 2 sets to 1.
func TwoOne() Predicate { return Predicate{Kind: TwoOneOnly} }

// NotSeries drops matches whose series/category equals s.
func NotSeries(s string) Predicate { return Predicate{Kind: ExcludeSeries, Values: []string{s}} }

// Filter is a conjunction of predicates. The zero value matches everything.
type Filter []Predicate

// Match reports whether every predicate accepts m.
func (f Filter) Match(m model.MatchRecord) bool {
	for _, p := range f {
		if !p.Match(m) {
			return false
		}
	}
	return true
}

// Players returns the union of all PlayerIn values, deduplicated and sorted.
// Only a single PlayerIn predicate is pushed into SQL; with several, the
// union is a superset and the Go-side Match narrows it down.
func (f Filter) Players() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range f {
		if p.Kind != PlayerIn {
			continue
		}
		for _, v := range p.Values {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// hasEmptyPlayerIn reports a PlayerIn predicate with no values, which can
// never match.
func (f Filter) hasEmptyPlayerIn() bool {
	for _, p := range f {
		if p.Kind == PlayerIn && len(p.Values) == 0 {
			return true
		}
	}
	return false
}

// Key returns a canonical representation used for cache keys. Predicate
// order and PlayerIn value order do not affect the key.
func (f Filter) Key() string {
	parts := make([]string, 0, len(f))
	for _, p := range f {
		vals := append([]string(nil), p.Values...)
		sort.Strings(vals)
		parts = append(parts, p.Kind.String()+"="+strings.Join(vals, "\x1f"))
	}
	sort.Strings(parts)
	return strings.Join(parts, "\x1e")
}
