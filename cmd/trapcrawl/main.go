// trapcrawl is a turn-based roguelike played in the terminal: one hero, a few
// goblins, and a room full of traps.
//
// Usage:
//
//	trapcrawl list                - List available scenarios
//	trapcrawl play [scenario]     - Play a scenario
//	trapcrawl menu                - Pick scenarios interactively
//	trapcrawl serve               - Start SSH server for remote play
//	trapcrawl runs <scenario>     - Show recorded runs for a scenario
//	trapcrawl check <level.yaml>  - Validate a level file
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.trapcrawl/runs.db)
//	--config <path>      - Use a specific config file
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Where TUI commands write logs
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import built-in scenarios to register them
	_ "github.com/vovakirdan/trapcrawl/internal/level/builtin"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trapcrawl",
	Short: "trapcrawl - a tiny turn-based trap roguelike",
	Long: `trapcrawl is a turn-based roguelike for the terminal. Every key press is
one turn: you move, the goblins close in, and every trap in the room fires.

Available commands:
  list     - Show all available scenarios
  play     - Play a scenario directly
  menu     - Interactive scenario picker
  serve    - Start SSH server for remote play
  runs     - View recorded runs
  check    - Validate a level file

Examples:
  trapcrawl list
  trapcrawl play ludum
  trapcrawl play --level ./my-room.yaml --difficulty hard
  trapcrawl serve --ssh :2222
  trapcrawl runs ludum`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to runs database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the TUI owns the terminal")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(checkCmd)
}
