package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-metrics/internal/model"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session over the season databases. Fetched tables stay cached between commands. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellHandler runs one REPL command. rest is the raw text after the command word.
type shellHandler func(cmd *cobra.Command, rest string) error

func shellCommands() map[string]shellHandler {
	players := func(run func(*cobra.Command, []string) error, minNames int) shellHandler {
		return func(cmd *cobra.Command, rest string) error {
			names := splitPlayers([]string{rest})
			if len(names) < minNames {
				return fmt.Errorf("give at least %d player name(s), comma-separated", minNames)
			}
			return run(cmd, names)
		}
	}
	noArgs := func(run func(*cobra.Command, []string) error) shellHandler {
		return func(cmd *cobra.Command, _ string) error { return run(cmd, nil) }
	}
	return map[string]shellHandler{
		"list":      noArgs(runList),
		"summary":   noArgs(runSummary),
		"favorites": noArgs(runFavorites),
		"player":    players(runPlayer, 1),
		"trend":     players(runTrend, 1),
		"tiebreaks": players(runTiebreaks, 0),
		"threesets": players(runThreesets, 0),
		"matches": func(cmd *cobra.Command, rest string) error {
			name := strings.TrimSpace(rest)
			if name == "" {
				return fmt.Errorf("usage: matches <name>")
			}
			return runMatches(cmd, []string{name})
		},
		"use":   func(_ *cobra.Command, rest string) error { return shellUse(rest) },
		"cache": func(_ *cobra.Command, rest string) error { return shellCache(rest) },
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	handlers := shellCommands()

	cGreeting.Println("tennismetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Printf("%s %d", strings.ToUpper(circuitName), season)
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, rest, _ := strings.Cut(line, " ")
		switch word {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
			continue
		}
		h, ok := handlers[word]
		if !ok {
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", word)
			continue
		}
		if err := h(cmd, strings.TrimSpace(rest)); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"use <atp|wta> <season>", "switch circuit and season"},
		{"list", "list available season databases"},
		{"summary", "season overview"},
		{"player <name>[, <name>...]", "season analysis; two or more names compare"},
		{"matches <name>", "a player's match log"},
		{"trend <name>[, <name>...]", "cumulative win rate over the season"},
		{"favorites", "most wins per surface"},
		{"tiebreaks [<name>, ...]", "tie-break ranking, or per-player share"},
		{"threesets [<name>, ...]", "2-1 match ranking, or per-player share"},
		{"cache [clear]", "show or empty the match-table cache"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellUse(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return fmt.Errorf("usage: use <atp|wta> <season>")
	}
	c, err := model.ParseCircuit(fields[0])
	if err != nil {
		return err
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid season %q", fields[1])
	}
	prevCircuit, prevSeason := circuitName, season
	circuitName, season = string(c), y
	src, err := currentSource()
	if err != nil {
		circuitName, season = prevCircuit, prevSeason
		return err
	}
	if !store.Exists(src) {
		cWarn.Fprintf(os.Stderr, "%s has no database yet\n", src)
	}
	return nil
}

func shellCache(rest string) error {
	switch strings.TrimSpace(rest) {
	case "":
		fmt.Printf("%d cached tables (limit %d, ttl %s)\n", store.CacheLen(), cfg.Cache.Size, cfg.Cache.TTL.Duration)
	case "clear":
		store.Purge()
		cMuted.Println("cache cleared")
	default:
		return fmt.Errorf("usage: cache [clear]")
	}
	return nil
}
