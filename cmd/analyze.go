package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"
)

const analyzeSystemPrompt = `You are a professional tennis performance analyst. You are given structured
season statistics computed from ATP/WTA match results and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Small samples (fewer than 5 matches in a group) are noise; say so when relevant.
- Be concise.

Metrics glossary:
- win_pct: matches won / matches played, in percent.
- titles: finals won ("The Final" round). grand_slam_titles: titles at Grand Slams.
- surfaces / tournaments / categories: the same record split by group.
- tiebreak_pct: share of matches with at least one set decided 7-6.
- three_set_pct: share of matches where exactly three sets were played.
- sets_per_match: mean sets per match at Grand Slams (best of five for men) vs other events.
- trend: cumulative win percentage after each match, in date order.
- radar: win_pct overall and per surface, plus titles scaled so the best player in the request scores 100.`

var (
	analyzeModel  string
	analyzeAPIKey string

	analyzeSurface  string
	analyzeCategory string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzePlayerCmd = &cobra.Command{
	Use:   "player <name[,name...]> <question>",
	Short: "Analyze one player's season, or compare several, with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzePlayer,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzePlayerCmd.Flags().StringVar(&analyzeSurface, "surface", "", "only matches on this surface")
	analyzePlayerCmd.Flags().StringVar(&analyzeCategory, "category", "", "only matches in this series/category")

	analyzeCmd.AddCommand(analyzePlayerCmd)
}

func runAnalyzePlayer(cmd *cobra.Command, args []string) error {
	players := splitPlayers(args[:1])
	if len(players) == 0 {
		return fmt.Errorf("no player name given")
	}
	question := args[1]

	src, err := currentSource()
	if err != nil {
		return err
	}
	t, err := loadTable(cmd.Context(), src, playerFilter(players, analyzeSurface, analyzeCategory))
	if err != nil {
		return fmt.Errorf("load %s: %w", src, err)
	}
	if len(t.Rows) == 0 {
		return fmt.Errorf("no matches found for %s in %s (after filters)", strings.Join(players, ", "), src)
	}

	contextJSON, err := buildPlayerContext(computePlayerStats(t, players), map[string]interface{}{
		"surface":  analyzeSurface,
		"category": analyzeCategory,
	})
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := analyzeModel
	if modelID == "" {
		modelID = cfg.Analyze.Model
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, modelID, contextJSON, question)
}

// buildPlayerContext serialises computed statistics into compact JSON.
func buildPlayerContext(ps playerStats, filters map[string]interface{}) (string, error) {
	doc := buildExportDoc(ps, time.Now())
	b, err := json.Marshal(map[string]interface{}{
		"subject": "players",
		"filters": filters,
		"data":    doc,
	})
	return string(b), err
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: analyzeSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question))),
		},
	})

	w := os.Stdout
	fmt.Fprintln(w, "\n--- Analysis ---")
	for stream.Next() {
		evt := stream.Current()
		if evt.Type != "content_block_delta" {
			continue
		}
		if delta := evt.AsContentBlockDelta(); delta.Delta.Type == "text_delta" {
			fmt.Fprint(w, delta.Delta.AsTextDelta().Text)
		}
	}
	fmt.Fprintln(w)
	return analyzeError(stream.Err())
}

// analyzeError maps API failures the user can act on to short messages.
func analyzeError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("API authentication failed (%d): check your API key", apiErr.StatusCode)
		case http.StatusTooManyRequests:
			return fmt.Errorf("API rate limit reached: retry later")
		}
	}
	return fmt.Errorf("analysis stream: %w", err)
}
