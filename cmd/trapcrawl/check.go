package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/trapcrawl/internal/level"
	"github.com/vovakirdan/trapcrawl/internal/sim"
)

var flagWatch bool

var checkCmd = &cobra.Command{
	Use:   "check <level.yaml>",
	Short: "Validate a level file",
	Long: `Parse and validate a level file, then build a world from it.
With --watch, re-validate every time the file is written.

Examples:
  trapcrawl check ./my-room.yaml
  trapcrawl check ./my-room.yaml --watch`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagWatch, "watch", false, "Re-validate the file on every change")
}

func runCheck(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(cfg, false)
	defer closeLog()

	path := args[0]
	ok := reportLevel(path)
	if !flagWatch {
		if !ok {
			os.Exit(1)
		}
		return
	}

	if err := watchLevel(path, logger); err != nil {
		fail("%v", err)
	}
}

// checkLevel loads a level file and builds a world from it.
func checkLevel(path string) (*level.Definition, error) {
	def, err := level.FileProvider{Path: path}.Load()
	if err != nil {
		return nil, err
	}
	if _, err := def.Build(sim.NewRandom(1)); err != nil {
		return nil, err
	}
	return def, nil
}

// reportLevel prints the check result and reports whether the level is valid.
func reportLevel(path string) bool {
	def, err := checkLevel(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: invalid\n", path)
		for _, line := range errorLines(err) {
			fmt.Fprintf(os.Stderr, "  - %s\n", line)
		}
		return false
	}
	fmt.Printf("%s: ok (%s, %dx%d, %d monsters, %d traps)\n",
		path, def.Title(), def.Size.W, def.Size.H, len(def.Monsters), len(def.Traps))
	return true
}

// errorLines flattens joined validation errors into one line each.
func errorLines(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var lines []string
		for _, e := range joined.Unwrap() {
			lines = append(lines, errorLines(e)...)
		}
		return lines
	}
	return []string{err.Error()}
}

// watchLevel re-validates path on every write until interrupted.
// The parent directory is watched so editors that replace the file on save
// keep triggering events.
func watchLevel(path string, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("cannot watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching level", "path", abs)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("level changed", "op", ev.Op.String())
			reportLevel(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-done:
			return nil
		}
	}
}
