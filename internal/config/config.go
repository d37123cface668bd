// Package config provides configuration types and defaults for hanoi.
package config

import (
	"fmt"

	"github.com/npratt/hanoi/internal/game"
	"github.com/npratt/hanoi/internal/stats"
	"github.com/npratt/hanoi/internal/storage"
)

// Storage backends.
const (
	BackendFile   = storage.BackendFile
	BackendSQLite = storage.BackendSQLite
	BackendMemory = storage.BackendMemory
)

// Themes.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds all configuration for hanoi.
type Config struct {
	Game        GameConfig        `yaml:"game" mapstructure:"game"`
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	UI          UIConfig          `yaml:"ui" mapstructure:"ui"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation"`
}

// GameConfig holds puzzle settings. The timer always ticks once a second
// and is not configurable.
type GameConfig struct {
	DiskCount int `yaml:"disk_count" mapstructure:"disk_count"` // Disks in a new game (3-7)
}

// StorageConfig selects where player statistics are persisted.
type StorageConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "file", "sqlite" or "memory"
	Path    string `yaml:"path" mapstructure:"path"`       // Directory for file backend, database file for sqlite
	Key     string `yaml:"key" mapstructure:"key"`         // Record key
}

// PathsConfig holds file paths for logs and the event log.
type PathsConfig struct {
	Log    string `yaml:"log" mapstructure:"log"`
	Events string `yaml:"events" mapstructure:"events"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme     string `yaml:"theme" mapstructure:"theme"`
	AltScreen bool   `yaml:"alt_screen" mapstructure:"alt_screen"`
}

// LogRotationConfig holds settings for log file rotation.
// Used for the TUI debug log (lumberjack-based automatic rotation).
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			DiskCount: game.MinDisks,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    ".hanoi",
			Key:     stats.DefaultKey,
		},
		Paths: PathsConfig{
			Log:    ".hanoi/hanoi.log",
			Events: ".hanoi/events.jsonl",
		},
		UI: UIConfig{
			Theme:     ThemeDark,
			AltScreen: true,
		},
		LogRotation: LogRotationConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if !game.ValidDiskCount(c.Game.DiskCount) {
		return fmt.Errorf("game.disk_count %d: must be between %d and %d", c.Game.DiskCount, game.MinDisks, game.MaxDisks)
	}
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: want %q, %q or %q", c.Storage.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	if c.Storage.Backend != BackendMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	switch c.UI.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("ui.theme %q: want %q or %q", c.UI.Theme, ThemeDark, ThemeLight)
	}
	return nil
}
