package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Server        ServerConfig        `toml:"server"`
	Log           LogConfig           `toml:"log"`
	Scheduler     SchedulerConfig     `toml:"scheduler"`
	Composer      ComposerConfig      `toml:"composer"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LogConfig controls log verbosity and the file used while the TUI owns the terminal.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// SchedulerConfig contains settings for the reminder sweep.
type SchedulerConfig struct {
	WeeksAhead    int     `toml:"weeks_ahead"`
	SweepSpec     string  `toml:"sweep_spec"`
	Timezone      string  `toml:"timezone"`
	DispatchRate  float64 `toml:"dispatch_rate"`
	TeamReminders bool    `toml:"team_reminders"`
}

// ComposerConfig contains setlist generation settings.
//
// A zero Seed means the composer is seeded from system entropy.
type ComposerConfig struct {
	Seed uint64 `toml:"seed"`
}

// NotificationsConfig contains defaults applied to generated notifications.
type NotificationsConfig struct {
	DefaultAssignee string `toml:"default_assignee"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
