// Package tennisapi is a fail-soft client for the RapidAPI tennis feed
// (live scores, rankings, tournament calendar, player search).
//
// No method returns an error: transport, status and decode failures are
// logged and turned into empty results.
package tennisapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/pable/go-tennis-metrics/internal/model"
)

const (
	// DefaultHost is the RapidAPI host header value.
	DefaultHost = "tennisapi1.p.rapidapi.com"
	// MinSearchLen is the shortest accepted player search query.
	MinSearchLen = 3

	defaultTimeout = 15 * time.Second
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	APIKey  string
	Host    string
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the live tennis feed.
type Client struct {
	apiKey  string
	host    string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a client for the feed.
func NewClient(opts Options) *Client {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}
	base := opts.BaseURL
	if base == "" {
		base = "https://" + host
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  opts.APIKey,
		host:    host,
		baseURL: strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     opts.Logger,
	}
}

// LiveMatches returns matches currently in progress.
func (c *Client) LiveMatches(ctx context.Context) []model.LiveMatch {
	body, ok := c.get(ctx, "/api/tennis/event/live", nil)
	if !ok {
		return nil
	}
	var out []model.LiveMatch
	gjson.GetBytes(body, "events").ForEach(func(_, ev gjson.Result) bool {
		out = append(out, model.LiveMatch{
			Home:       strOr(ev, "Unknown", "homeTeam.name"),
			Away:       strOr(ev, "Unknown", "awayTeam.name"),
			HomeScore:  intOr(ev, "homeScore.current", "score.home"),
			AwayScore:  intOr(ev, "awayScore.current", "score.away"),
			Tournament: strOr(ev, "Unknown tournament", "tournament.name"),
			Round:      strOr(ev, "N/A", "roundInfo.name"),
			Status:     strOr(ev, "In progress", "status.description"),
		})
		return true
	})
	return out
}

// Ranking returns the top limit entries of the circuit's official ranking.
func (c *Client) Ranking(ctx context.Context, circuit model.Circuit, limit int) []model.RankingEntry {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	body, ok := c.get(ctx, "/api/tennis/rankings/"+string(circuit), q)
	if !ok {
		return nil
	}
	var out []model.RankingEntry
	gjson.GetBytes(body, "rankings").ForEach(func(_, r gjson.Result) bool {
		out = append(out, model.RankingEntry{
			Rank:    intOr(r, "rank", "ranking"),
			Player:  strOr(r, "", "name", "team.name"),
			Country: strOr(r, "", "country.name", "team.country.name"),
			Points:  intOr(r, "points"),
		})
		return true
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Tournaments returns events between from and to (YYYY-MM-DD). Empty bounds
// default to the current calendar month.
func (c *Client) Tournaments(ctx context.Context, from, to string) []model.TournamentEntry {
	if from == "" || to == "" {
		df, dt := MonthRange(time.Now())
		if from == "" {
			from = df
		}
		if to == "" {
			to = dt
		}
	}
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	body, ok := c.get(ctx, "/api/tennis/tournaments", q)
	if !ok {
		return nil
	}
	var out []model.TournamentEntry
	gjson.GetBytes(body, "tournaments").ForEach(func(_, t gjson.Result) bool {
		out = append(out, model.TournamentEntry{
			Name:      strOr(t, "", "name"),
			Category:  strOr(t, "", "category.name", "category"),
			Surface:   strOr(t, "", "groundType", "surface"),
			StartDate: strOr(t, "", "startDate"),
			EndDate:   strOr(t, "", "endDate"),
		})
		return true
	})
	return out
}

// SearchPlayers looks players up by name. Queries shorter than
// MinSearchLen return nil without a request.
func (c *Client) SearchPlayers(ctx context.Context, query string) []model.PlayerSummary {
	query = strings.TrimSpace(query)
	if len(query) < MinSearchLen {
		return nil
	}
	q := url.Values{}
	q.Set("query", query)
	body, ok := c.get(ctx, "/api/tennis/search/players", q)
	if !ok {
		return nil
	}
	var out []model.PlayerSummary
	gjson.GetBytes(body, "players").ForEach(func(_, p gjson.Result) bool {
		out = append(out, model.PlayerSummary{
			ID:      strOr(p, "", "id"),
			Name:    strOr(p, "", "name"),
			Country: strOr(p, "", "country.name", "country"),
			Ranking: intOr(p, "ranking", "rank"),
		})
		return true
	})
	return out
}

// PlayerStats returns a player's statistics flattened to dotted field names
// in document order.
func (c *Client) PlayerStats(ctx context.Context, playerID string) []model.StatField {
	if playerID == "" {
		return nil
	}
	body, ok := c.get(ctx, "/api/tennis/player/"+url.PathEscape(playerID)+"/stats", nil)
	if !ok {
		return nil
	}
	var out []model.StatField
	flatten("", gjson.ParseBytes(body), &out)
	return out
}

func flatten(prefix string, r gjson.Result, out *[]model.StatField) {
	if !r.IsObject() {
		if prefix != "" && r.Exists() && r.Type != gjson.Null {
			*out = append(*out, model.StatField{Name: prefix, Value: r.String()})
		}
		return
	}
	r.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		flatten(name, v, out)
		return true
	})
}

// MonthRange returns the first and last day of t's month as YYYY-MM-DD.
func MonthRange(t time.Time) (string, string) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// get performs an authenticated GET and returns the body when the response
// is 200 with valid JSON. Every failure is logged and reported as !ok.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, bool) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	logger := c.log.With().Str("path", path).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("live feed: build request")
		return nil, false
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn().Err(err).Msg("live feed: request failed")
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn().Err(err).Msg("live feed: read body")
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		logger.Warn().Err(fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(body, 200))).Msg("live feed: bad status")
		return nil, false
	}
	if !gjson.ValidBytes(body) {
		logger.Warn().Msg("live feed: invalid JSON")
		return nil, false
	}
	return body, true
}

// strOr returns the first non-empty string among paths, else def.
func strOr(r gjson.Result, def string, paths ...string) string {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.String() != "" {
			return v.String()
		}
	}
	return def
}

// intOr returns the first present number among paths, else 0.
func intOr(r gjson.Result, paths ...string) int {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return int(v.Int())
		}
	}
	return 0
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
