package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config file locations.
const (
	// GlobalConfigDir is the directory under $XDG_CONFIG_HOME (or ~/.config)
	GlobalConfigDir = "hanoi"
	// GlobalConfigFile is the global config file name
	GlobalConfigFile = "config.yaml"
	// ProjectConfigDir is the working-directory config directory
	ProjectConfigDir = ".hanoi"
	// ProjectConfigFile is the project config file name
	ProjectConfigFile = "config.yaml"
)

// layer is one config file in precedence order. Optional layers that do
// not exist are skipped.
type layer struct {
	path     string
	required bool
}

// layers returns the config files for v, lowest precedence first: global,
// project, then the explicit --config / HANOI_CONFIG file.
func layers(v *viper.Viper) []layer {
	var ls []layer
	if p := globalConfigPath(); p != "" {
		ls = append(ls, layer{path: p})
	}
	if p := projectConfigPath(); p != "" {
		ls = append(ls, layer{path: p})
	}
	if p := v.GetString("config"); p != "" {
		ls = append(ls, layer{path: p, required: true})
	}
	return ls
}

// Sources lists the config files LoadConfig reads for v, lowest
// precedence first.
func Sources(v *viper.Viper) []string {
	var paths []string
	for _, l := range layers(v) {
		paths = append(paths, l.path)
	}
	return paths
}

// LoadConfig builds the effective configuration. Later sources win:
// Default(), the global file, the project file, the explicit file, then
// HANOI_* environment variables. Flags are applied by the caller. The
// result is validated.
func LoadConfig(v *viper.Viper) (*Config, error) {
	cfg := Default()

	defaults, err := structToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, fmt.Errorf("merge defaults: %w", err)
	}

	for _, l := range layers(v) {
		if err := mergeFile(v, l); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, viperDecodeHook()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// globalConfigPath returns the global config file path if it exists.
func globalConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return existing(filepath.Join(dir, GlobalConfigDir, GlobalConfigFile))
}

// projectConfigPath returns .hanoi/config.yaml if it exists.
func projectConfigPath() string {
	return existing(filepath.Join(ProjectConfigDir, ProjectConfigFile))
}

func existing(path string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// mergeFile reads one YAML file into v.
func mergeFile(v *viper.Viper, l layer) error {
	file, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) && !l.required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	fv := viper.New()
	fv.SetConfigType("yaml")
	if err := fv.ReadConfig(file); err != nil {
		return fmt.Errorf("read %s: %w", l.path, err)
	}
	return v.MergeConfigMap(fv.AllSettings())
}

func viperDecodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))
}

// structToMap flattens cfg into the nested map form viper merges.
func structToMap(cfg *Config) (map[string]any, error) {
	out := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "mapstructure",
		Result:  &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return out, nil
}
