package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/trapcrawl/internal/platform/tui"
	"github.com/vovakirdan/trapcrawl/internal/registry"
	"github.com/vovakirdan/trapcrawl/internal/storage"
)

var (
	flagRunsTUI   bool
	flagRunsLimit int
	flagRunsClear bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Display statistics, the best run and the most recent runs for a scenario.
With --tui, browse the runs of every scenario in a table instead.

Examples:
  trapcrawl runs ludum
  trapcrawl runs ludum --limit 25
  trapcrawl runs --tui
  trapcrawl runs gauntlet --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().BoolVar(&flagRunsTUI, "tui", false, "Browse runs in an interactive table")
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of recent runs to show")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete all recorded runs of the scenario")
}

func runRuns(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, flagRunsTUI)
	defer closeLog()
	registerUserLevels(cfg, logger)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fail("opening runs database: %v", err)
	}
	defer store.Close()

	if flagRunsTUI {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunHistory(store, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	id := cfg.DefaultScenario
	if len(args) > 0 {
		id = args[0]
	}
	title := id
	if def, err := registry.Create(id); err == nil {
		title = def.Title()
	}

	if flagRunsClear {
		if err := store.ClearRuns(id); err != nil {
			fail("%v", err)
		}
		logger.Info("runs cleared", "scenario", id)
		fmt.Printf("Cleared all runs of %s.\n", title)
		return
	}

	stats, err := store.ScenarioStats(id)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Runs - %s\n", title)
	fmt.Println()

	if stats.Runs == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'trapcrawl play %s' to record the first one!\n", id)
		return
	}

	fmt.Printf("  Runs: %d (%d lost)  Avg turns: %.1f  Total kills: %d\n",
		stats.Runs, stats.Losses, stats.AvgTurns, stats.TotalKills)
	fmt.Printf("  Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))

	if best, err := store.BestRun(id); err == nil && best != nil {
		fmt.Printf("  Best: %d turns, %d kills (seed %d)\n", best.Turns, best.Kills, best.Seed)
	}
	fmt.Println()

	runs, err := store.RecentRuns(id, flagRunsLimit)
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("  %-5s  %-7s  %-5s  %-5s  %-3s  %-20s  %s\n", "#", "Outcome", "Turns", "Kills", "HP", "Seed", "Date")
	fmt.Printf("  %-5s  %-7s  %-5s  %-5s  %-3s  %-20s  %s\n", "-", "-------", "-----", "-----", "--", "----", "----")
	for _, r := range runs {
		fmt.Printf("  %-5d  %-7s  %-5d  %-5d  %-3d  %-20d  %s\n",
			r.ID, r.Outcome, r.Turns, r.Kills, r.FinalHP, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
