package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/trapcrawl/internal/platform/tui"
)

var flagMenuDifficulty string

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick scenarios from an interactive menu",
	Long: `Start trapcrawl in menu mode. This is the same flow SSH players get.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play scenario
  Tab          - Run history
  Esc          - Back to the menu (in game or history)
  Q            - Quit

Examples:
  trapcrawl menu
  trapcrawl menu --difficulty hard`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagMenuDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, true)
	defer closeLog()
	registerUserLevels(cfg, logger)

	opts := tui.SessionOptions{
		Logger:     logger,
		Config:     terminalConfig(),
		Scenario:   cfg.DefaultScenario,
		Difficulty: difficulty(cfg, flagMenuDifficulty),
	}
	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
		opts.Store = store
		opts.History = store
	}

	p := tea.NewProgram(tui.NewSessionModel(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fail("%v", err)
	}
}
