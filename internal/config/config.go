package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/riordanpawley/structdo/internal/domain"
	"github.com/riordanpawley/structdo/internal/registry"
	"gopkg.in/yaml.v3"
)

// File names looked up in the project directory, in order
const (
	JSONFile       = ".structdo.json"
	TOMLFile       = "structdo.toml"
	HiddenTOMLFile = ".structdo.toml"
	YAMLFile       = "structdo.yaml"
)

// Config represents the full structdo configuration
type Config struct {
	DataFile string         `json:"dataFile" toml:"data_file" yaml:"data_file"`
	Mode     string         `json:"mode" toml:"mode" yaml:"mode"`
	Tree     TreeConfig     `json:"tree" toml:"tree" yaml:"tree"`
	Priority PriorityConfig `json:"priority" toml:"priority" yaml:"priority"`
	Log      LogConfig      `json:"log" toml:"log" yaml:"log"`
	UI       UIConfig       `json:"ui" toml:"ui" yaml:"ui"`
	AutoSave bool           `json:"autoSave" toml:"auto_save" yaml:"auto_save"`
}

// TreeConfig contains binary search tree settings
type TreeConfig struct {
	SortField string `json:"sortField" toml:"sort_field" yaml:"sort_field"`
}

// PriorityConfig bounds task priorities
type PriorityConfig struct {
	Min     int `json:"min" toml:"min" yaml:"min"`
	Max     int `json:"max" toml:"max" yaml:"max"`
	Default int `json:"default" toml:"default" yaml:"default"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `json:"level" toml:"level" yaml:"level"`
	Format string `json:"format" toml:"format" yaml:"format"` // text, logfmt or json
	File   string `json:"file" toml:"file" yaml:"file"`
}

// UIConfig contains board settings
type UIConfig struct {
	ToastSeconds int  `json:"toastSeconds" toml:"toast_seconds" yaml:"toast_seconds"`
	ConfirmClear bool `json:"confirmClear" toml:"confirm_clear" yaml:"confirm_clear"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		DataFile: "todo_data.json",
		Mode:     string(registry.ModeMirrored),
		Tree: TreeConfig{
			SortField: string(domain.SortByPriority),
		},
		Priority: PriorityConfig{
			Min:     1,
			Max:     10,
			Default: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(homeDir, ".structdo", "structdo.log"),
		},
		UI: UIConfig{
			ToastSeconds: 3,
			ConfirmClear: true,
		},
		AutoSave: false,
	}
}

// LoadConfig loads configuration from a project directory with priority:
// 1. CLI flags (applied by the caller)
// 2. .structdo.json (with version migration support)
// 3. structdo.toml, then .structdo.toml
// 4. structdo.yaml
// 5. Defaults
func LoadConfig(projectPath string) (*Config, error) {
	jsonPath := filepath.Join(projectPath, JSONFile)
	if data, err := os.ReadFile(jsonPath); err == nil {
		cfg, err := ParseVersionedConfig(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", JSONFile, err)
		}
		return finish(cfg, jsonPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", JSONFile, err)
	}

	for _, name := range []string{TOMLFile, HiddenTOMLFile} {
		path := filepath.Join(projectPath, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg := DefaultConfig()
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return finish(cfg, path)
	}

	yamlPath := filepath.Join(projectPath, YAMLFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		cfg := DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", YAMLFile, err)
		}
		return finish(cfg, yamlPath)
	}

	return DefaultConfig(), nil
}

func finish(cfg *Config, path string) (*Config, error) {
	cfg = MergeWithDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if strings.TrimSpace(cfg.DataFile) == "" {
		cfg.DataFile = defaults.DataFile
	}
	if cfg.Mode == "" {
		cfg.Mode = defaults.Mode
	}

	// Merge Tree config
	if cfg.Tree.SortField == "" {
		cfg.Tree.SortField = defaults.Tree.SortField
	}

	// Merge Priority config. A zero range means "unset".
	if cfg.Priority.Min == 0 && cfg.Priority.Max == 0 {
		cfg.Priority.Min = defaults.Priority.Min
		cfg.Priority.Max = defaults.Priority.Max
	}
	if cfg.Priority.Default == 0 {
		cfg.Priority.Default = cfg.Priority.Min
	}

	// Merge Log config
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaults.Log.Format
	}
	if cfg.Log.File == "" {
		cfg.Log.File = defaults.Log.File
	}

	// Merge UI config
	if cfg.UI.ToastSeconds == 0 {
		cfg.UI.ToastSeconds = defaults.UI.ToastSeconds
	}

	return cfg
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	var errs []error

	if _, err := registry.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := domain.ParseSortField(c.Tree.SortField); err != nil {
		errs = append(errs, err)
	}
	if c.Priority.Min >= c.Priority.Max {
		errs = append(errs, fmt.Errorf("priority.min (%d) must be below priority.max (%d)", c.Priority.Min, c.Priority.Max))
	} else if c.Priority.Default < c.Priority.Min || c.Priority.Default > c.Priority.Max {
		errs = append(errs, fmt.Errorf("priority.default (%d) must be within %d-%d", c.Priority.Default, c.Priority.Min, c.Priority.Max))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "logfmt", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q (want text, logfmt or json)", c.Log.Format))
	}
	if c.UI.ToastSeconds < 0 {
		errs = append(errs, fmt.Errorf("ui.toastSeconds cannot be negative"))
	}

	return errors.Join(errs...)
}

// RegistryOptions converts the config into registry options.
// Call Validate first; unparsable values fall back to defaults.
func (c *Config) RegistryOptions() registry.Options {
	opts := registry.DefaultOptions()
	if mode, err := registry.ParseMode(c.Mode); err == nil {
		opts.Mode = mode
	}
	if field, err := domain.ParseSortField(c.Tree.SortField); err == nil {
		opts.SortField = field
	}
	opts.MinPriority = c.Priority.Min
	opts.MaxPriority = c.Priority.Max
	opts.DefaultPriority = c.Priority.Default
	return opts
}

// DataPath resolves the data file against the project directory
func (c *Config) DataPath(projectPath string) string {
	if filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(projectPath, c.DataFile)
}

// Load is a convenience function that loads config from current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}
