package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/trapcrawl/internal/config"
	"github.com/vovakirdan/trapcrawl/internal/core"
	"github.com/vovakirdan/trapcrawl/internal/level"
	"github.com/vovakirdan/trapcrawl/internal/registry"
	"github.com/vovakirdan/trapcrawl/internal/storage"
)

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig reads the app config and applies global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFile != "" {
		cfg.LogFile = flagLogFile
	}
	return cfg
}

// newLogger builds the root logger. TUI commands log to the configured file
// because the terminal belongs to Bubble Tea; the rest log to stderr.
// The returned function closes the log file.
func newLogger(cfg config.Config, toFile bool) (*log.Logger, func()) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		fail("invalid log level %q: %v", cfg.LogLevel, err)
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if toFile {
		w = io.Discard
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		} else {
			w = f
			closeFn = func() { f.Close() }
		}
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "trapcrawl",
		Level:           lvl,
	})
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	path, err := config.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

// registerUserLevels adds the valid files in the levels directory to the
// registry. Built-in IDs win over user files with the same ID.
func registerUserLevels(cfg config.Config, logger *log.Logger) []*level.Definition {
	dir, err := config.ExpandHome(cfg.LevelsDir)
	if err != nil {
		logger.Warn("cannot resolve levels directory", "err", err)
		return nil
	}
	defs, err := level.NewLoader(dir).LoadAll()
	if err != nil {
		logger.Warn("cannot load user levels", "dir", dir, "err", err)
		return nil
	}

	var added []*level.Definition
	for _, def := range defs {
		if registry.Exists(def.ID) {
			logger.Warn("user level shadows a registered scenario", "id", def.ID, "file", def.Source)
			continue
		}
		registry.Register(def.ID, level.FileProvider{Path: def.Source})
		added = append(added, def)
	}
	return added
}

// resolveScenario picks the definition to play: an explicit level file,
// then the scenario ID, then the configured default.
func resolveScenario(cfg config.Config, id, levelFile string) (string, *level.Definition, error) {
	if levelFile != "" {
		def, err := level.FileProvider{Path: levelFile}.Load()
		if err != nil {
			return "", nil, err
		}
		return def.ID, def, nil
	}
	if id == "" {
		id = cfg.DefaultScenario
	}
	def, err := registry.Create(id)
	if err != nil {
		return "", nil, err
	}
	return id, def, nil
}

// difficulty resolves the preset from a flag, falling back to the config.
func difficulty(cfg config.Config, flag string) config.DifficultyPreset {
	if flag == "" {
		return cfg.Difficulty
	}
	preset, err := config.ParseDifficulty(flag)
	if err != nil {
		fail("%v", err)
	}
	return preset
}

// terminalConfig builds a runtime config from the terminal size.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
	}
}

// openStore opens the runs database. Games still work without it.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		logger.Warn("could not open runs database", "err", err)
		return nil
	}
	return store
}
