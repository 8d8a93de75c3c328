package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trapcrawl/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available scenarios",
	Long: `Shows the built-in scenarios and every valid level file found in the
configured levels directory (default ~/.trapcrawl/levels).`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false)
	defer closeLog()
	registerUserLevels(cfg, logger)

	scenarios := registry.List()
	if len(scenarios) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range scenarios {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "ID", "Size", "Title")
	fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, "--", "----", "-----")
	for _, s := range scenarios {
		size := fmt.Sprintf("%dx%d", s.Size.W, s.Size.H)
		fmt.Printf("  %-*s  %-7s  %s\n", maxIDLen, s.ID, size, s.Title)
	}

	fmt.Println()
	fmt.Println("Run 'trapcrawl play <id>' to play a scenario.")
}
