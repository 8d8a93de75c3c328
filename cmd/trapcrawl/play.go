package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trapcrawl/internal/game"
	"github.com/vovakirdan/trapcrawl/internal/platform/tui"
	"github.com/vovakirdan/trapcrawl/internal/registry"
)

var (
	flagLevelFile  string
	flagDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play [scenario]",
	Short: "Play a scenario",
	Long: `Start playing the given scenario, or the configured default one.

Every key press is one turn.

Controls:
  Arrows/hjkl  - Move
  y/u/b/n      - Move diagonally
  R            - Restart (after you die)
  ?            - Toggle help
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - +3 max HP
  normal - level HP
  hard   - -2 max HP (never below 1)

Examples:
  trapcrawl play
  trapcrawl play gauntlet --difficulty easy
  trapcrawl play --level ./my-room.yaml
  trapcrawl play ludum --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLevelFile, "level", "", "Path to a level YAML file")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, true)
	defer closeLog()
	registerUserLevels(cfg, logger)

	var id string
	if len(args) > 0 {
		id = args[0]
	}
	if id != "" && flagLevelFile == "" && !registry.Exists(id) {
		fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'trapcrawl list' to see available scenarios.")
		os.Exit(1)
	}

	id, def, err := resolveScenario(cfg, id, flagLevelFile)
	if err != nil {
		fail("%v", err)
	}

	g := game.NewWithDifficulty(id, *def, difficulty(cfg, flagDifficulty))

	store := openStore(cfg, logger)
	opts := tui.Options{
		Logger: logger,
		Config: terminalConfig(),
	}
	if store != nil {
		opts.Store = store
	}

	runErr := tui.Run(g, opts)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
