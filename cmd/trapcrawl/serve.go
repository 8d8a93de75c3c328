package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trapcrawl/internal/platform/tui"
)

var (
	flagSSHAddr         string
	flagHostKey         string
	flagIdleTimeout     int
	flagServeDifficulty string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the trapcrawl SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with a scenario menu and its own
world. Runs are stored per-server (all users share the same history).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses ssh.host_key from the config, or auto-generates a key
    at ~/.trapcrawl/host_key

Examples:
  trapcrawl serve                           # Listen on :23234 with auto-generated key
  trapcrawl serve --ssh :2222               # Listen on port 2222
  trapcrawl serve --host-key ./my_host_key  # Use specific host key
  trapcrawl serve --db ./runs.db            # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port, default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config)")
	serveCmd.Flags().StringVar(&flagServeDifficulty, "difficulty", "", "Difficulty preset for every session")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false)
	defer closeLog()
	registerUserLevels(cfg, logger)

	addr := cfg.SSH.Address
	if flagSSHAddr != "" {
		addr = flagSSHAddr
	}
	hostKey := cfg.SSH.HostKey
	if flagHostKey != "" {
		hostKey = flagHostKey
	}
	idle := cfg.SSH.IdleTimeoutMinutes
	if flagIdleTimeout > 0 {
		idle = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     addr,
		HostKeyPath: hostKey,
		DBPath:      cfg.DBPath,
		IdleTimeout: time.Duration(idle) * time.Minute,
		Scenario:    cfg.DefaultScenario,
		Difficulty:  difficulty(cfg, flagServeDifficulty),
		Logger:      logger.WithPrefix("trapcrawl-ssh"),
	})
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting trapcrawl SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
