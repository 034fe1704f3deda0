package aggregator

import (
	"sort"

	"github.com/pable/go-tennis-metrics/internal/model"
)

// FavoritesPerSurface is the number of winners listed per surface.
const FavoritesPerSurface = 10

// FavoritesBySurface ranks match winners per surface over a whole season.
// Surfaces are returned in alphabetical order; within a surface the order
// is win count descending, then player name.
func FavoritesBySurface(matches []model.MatchRecord, n int) []model.SurfaceFavorites {
	bySurface := make(map[string][]model.MatchRecord)
	for _, m := range matches {
		bySurface[m.Surface] = append(bySurface[m.Surface], m)
	}
	surfaces := make([]string, 0, len(bySurface))
	for s := range bySurface {
		surfaces = append(surfaces, s)
	}
	sort.Strings(surfaces)

	out := make([]model.SurfaceFavorites, 0, len(surfaces))
	for _, s := range surfaces {
		out = append(out, model.SurfaceFavorites{Surface: s, Entries: CountWins(bySurface[s], n)})
	}
	return out
}
