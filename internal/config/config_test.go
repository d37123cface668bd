package config

import (
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v, want nil", err)
	}
}

func TestDefaultGameConfig(t *testing.T) {
	cfg := Default()

	if cfg.Game.DiskCount != 3 {
		t.Errorf("Game.DiskCount = %d, want 3", cfg.Game.DiskCount)
	}
}

func TestDefaultStorageConfig(t *testing.T) {
	cfg := Default()

	if cfg.Storage.Backend != BackendFile {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendFile)
	}
	if cfg.Storage.Key != "hanoiStats" {
		t.Errorf("Storage.Key = %q, want %q", cfg.Storage.Key, "hanoiStats")
	}
}

func TestDefaultLogRotationConfig(t *testing.T) {
	cfg := Default()

	if cfg.LogRotation.MaxSizeMB != 10 {
		t.Errorf("LogRotation.MaxSizeMB = %d, want 10", cfg.LogRotation.MaxSizeMB)
	}
	if cfg.LogRotation.MaxBackups != 3 {
		t.Errorf("LogRotation.MaxBackups = %d, want 3", cfg.LogRotation.MaxBackups)
	}
	if !cfg.LogRotation.Compress {
		t.Error("LogRotation.Compress = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"seven disks", func(c *Config) { c.Game.DiskCount = 7 }, ""},
		{"too few disks", func(c *Config) { c.Game.DiskCount = 2 }, "disk_count"},
		{"too many disks", func(c *Config) { c.Game.DiskCount = 8 }, "disk_count"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"sqlite without path", func(c *Config) {
			c.Storage.Backend = BackendSQLite
			c.Storage.Path = ""
		}, "storage.path"},
		{"memory without path", func(c *Config) {
			c.Storage.Backend = BackendMemory
			c.Storage.Path = ""
		}, ""},
		{"empty key", func(c *Config) { c.Storage.Key = "" }, "storage.key"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }, "ui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
