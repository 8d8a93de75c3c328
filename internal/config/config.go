// Package config provides YAML-based application configuration loading and
// difficulty presets for trapcrawl.
package config

// Config is the application configuration.
type Config struct {
	LogLevel        string           `yaml:"log_level"`
	LogFile         string           `yaml:"log_file"`
	DBPath          string           `yaml:"db_path"`
	LevelsDir       string           `yaml:"levels_dir"` // Extra level files, searched after built-ins
	DefaultScenario string           `yaml:"default_scenario"`
	Difficulty      DifficultyPreset `yaml:"difficulty"`
	SSH             SSHConfig        `yaml:"ssh"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"` // Auto-generated under ~/.trapcrawl when empty
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// fillDefaults replaces zero values with the hardcoded defaults, so partial
// config files only need the keys they change.
func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.LevelsDir == "" {
		c.LevelsDir = d.LevelsDir
	}
	if c.DefaultScenario == "" {
		c.DefaultScenario = d.DefaultScenario
	}
	if c.Difficulty == "" {
		c.Difficulty = d.Difficulty
	}
	if c.SSH.Address == "" {
		c.SSH.Address = d.SSH.Address
	}
	if c.SSH.IdleTimeoutMinutes <= 0 {
		c.SSH.IdleTimeoutMinutes = d.SSH.IdleTimeoutMinutes
	}
}
