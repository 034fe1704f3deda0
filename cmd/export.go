package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
)

var (
	exportPlayers string
	exportRoster  string
	exportOut     string
)

// rosterFile is the schema for --roster JSON files.
type rosterFile struct {
	Players []string `json:"players"`
}

// exportDoc is the top-level JSON written by export and fed to analyze.
type exportDoc struct {
	Source      string         `json:"source"`
	GeneratedAt string         `json:"generated_at"`
	Players     []exportPlayer `json:"players"`
	Radar       []exportRadar  `json:"radar,omitempty"`
}

type exportPlayer struct {
	Player          string        `json:"player"`
	Matches         int           `json:"matches"`
	Wins            int           `json:"wins"`
	Losses          int           `json:"losses"`
	WinPct          float64       `json:"win_pct"`
	Titles          int           `json:"titles"`
	GrandSlamTitles int           `json:"grand_slam_titles"`
	TitlesWon       []exportTitle `json:"titles_won,omitempty"`
	Surfaces        []exportGroup `json:"surfaces"`
	Tournaments     []exportGroup `json:"tournaments"`
	Categories      []exportGroup `json:"categories,omitempty"`
	CategoryNote    string        `json:"categories_note,omitempty"`
	TiebreakPct     float64       `json:"tiebreak_pct"`
	ThreeSetPct     float64       `json:"three_set_pct"`
	SetsPerMatch    exportSets    `json:"sets_per_match"`
	Trend           []exportPoint `json:"trend,omitempty"`
	TrendNote       string        `json:"trend_note,omitempty"`
}

type exportTitle struct {
	Tournament string `json:"tournament"`
	Surface    string `json:"surface"`
	Category   string `json:"category,omitempty"`
	RunnerUp   string `json:"runner_up"`
	Date       string `json:"date,omitempty"`
}

type exportGroup struct {
	Key     string  `json:"key"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinPct  float64 `json:"win_pct"`
	Titles  int     `json:"titles"`
}

type exportSets struct {
	GrandSlam        float64 `json:"grand_slam"`
	GrandSlamMatches int     `json:"grand_slam_matches"`
	Other            float64 `json:"other"`
	OtherMatches     int     `json:"other_matches"`
}

type exportPoint struct {
	Date   string  `json:"date"`
	Result string  `json:"result"`
	WinPct float64 `json:"win_pct"`
}

type exportRadar struct {
	Player   string  `json:"player"`
	WinPct   float64 `json:"win_pct"`
	HardPct  float64 `json:"hard_pct"`
	ClayPct  float64 `json:"clay_pct"`
	GrassPct float64 `json:"grass_pct"`
	Titles   float64 `json:"titles_score"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export players' season stats as JSON",
	Long: `Compute every season statistic for a set of players and write it as JSON.

Specify players via --players (comma-separated names) or --roster (path to a
JSON file {"players":[...]}). If both are provided, --players takes precedence.

Example:
  tennismetrics export --players "Nadal R.,Federer R." --season 2008 --out big2.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportPlayers, "players", "", "comma-separated player names")
	exportCmd.Flags().StringVar(&exportRoster, "roster", "", `roster JSON file: {"players":["...",...]}`)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	players, err := resolvePlayers()
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return fmt.Errorf("no players specified: use --players or --roster")
	}
	src, err := currentSource()
	if err != nil {
		return err
	}
	t, err := loadTable(cmd.Context(), src, playerFilter(players, "", ""))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}

	doc := buildExportDoc(computePlayerStats(t, players), time.Now())
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if exportOut == "" {
		fmt.Fprintln(os.Stdout, string(b))
		return nil
	}
	if err := os.WriteFile(exportOut, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d players)\n", exportOut, len(players))
	return nil
}

// resolvePlayers reads --players, falling back to --roster.
func resolvePlayers() ([]string, error) {
	if exportPlayers != "" {
		return splitPlayers([]string{exportPlayers}), nil
	}
	if exportRoster == "" {
		return nil, nil
	}
	data, err := os.ReadFile(exportRoster)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var r rosterFile
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return splitPlayers(r.Players), nil
}

// buildExportDoc converts computed statistics into the export schema.
func buildExportDoc(ps playerStats, now time.Time) exportDoc {
	doc := exportDoc{
		Source:      ps.Source.String(),
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	for i, p := range ps.Players {
		rec := ps.Records[i]
		ep := exportPlayer{
			Player:          p,
			Matches:         rec.Matches(),
			Wins:            rec.Wins,
			Losses:          rec.Losses,
			WinPct:          round2(rec.WinRate()),
			Titles:          rec.Titles,
			GrandSlamTitles: rec.GrandSlamTitles,
			Surfaces:        exportGroups(ps.Surfaces, p),
			Tournaments:     exportGroups(ps.Tournaments, p),
			TiebreakPct:     round2(ps.Tiebreaks[i].Pct()),
			ThreeSetPct:     round2(ps.ThreeSets[i].Pct()),
			SetsPerMatch: exportSets{
				GrandSlam:        round2(ps.SetAverages[i].GrandSlam),
				GrandSlamMatches: ps.SetAverages[i].GrandSlamMatches,
				Other:            round2(ps.SetAverages[i].Other),
				OtherMatches:     ps.SetAverages[i].OtherMatches,
			},
		}
		if ps.CategoryErr != nil {
			ep.CategoryNote = describeErr(ps.CategoryErr)
		} else {
			ep.Categories = exportGroups(ps.Categories, p)
		}
		if ps.RollingErr != nil {
			ep.TrendNote = describeErr(ps.RollingErr)
		}
		for _, pt := range ps.Rolling {
			if pt.Player == p {
				ep.Trend = append(ep.Trend, exportPoint{Date: pt.Date, Result: pt.Outcome.String(), WinPct: round2(pt.WinRate)})
			}
		}
		for _, t := range ps.Titles {
			if t.Player == p {
				ep.TitlesWon = append(ep.TitlesWon, exportTitle{
					Tournament: t.Tournament, Surface: t.Surface, Category: t.Category, RunnerUp: t.RunnerUp, Date: t.Date,
				})
			}
		}
		doc.Players = append(doc.Players, ep)
	}
	for _, r := range ps.Radar {
		doc.Radar = append(doc.Radar, exportRadar{
			Player:   r.Player,
			WinPct:   round2(r.WinRate),
			HardPct:  round2(r.Hard),
			ClayPct:  round2(r.Clay),
			GrassPct: round2(r.Grass),
			Titles:   round2(r.Titles),
		})
	}
	return doc
}

func exportGroups(stats []model.GroupStat, player string) []exportGroup {
	out := []exportGroup{}
	for _, g := range stats {
		if g.Player != player {
			continue
		}
		out = append(out, exportGroup{Key: g.Key, Matches: g.Matches, Wins: g.Wins, WinPct: round2(g.WinRate()), Titles: g.Titles})
	}
	return out
}

// round2 rounds a float64 to 2 decimal places.
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
