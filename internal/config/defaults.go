package config

import (
	_ "embed"
)

//go:embed defaults/trapcrawl.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration.
func Default() Config {
	return Config{
		LogLevel:        "info",
		LogFile:         "~/.trapcrawl/trapcrawl.log",
		DBPath:          "~/.trapcrawl/runs.db",
		LevelsDir:       "~/.trapcrawl/levels",
		DefaultScenario: "ludum",
		Difficulty:      DifficultyNormal,
		SSH: SSHConfig{
			Address:            ":23234",
			IdleTimeoutMinutes: 30,
		},
	}
}

// DefaultYAML returns the embedded default config file.
func DefaultYAML() []byte {
	return defaultYAML
}
