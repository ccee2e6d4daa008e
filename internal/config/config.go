// Package config loads subseq settings from defaults, YAML files and the
// environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	suberrors "github.com/Aman-CERP/subseq/internal/errors"
	"github.com/Aman-CERP/subseq/internal/match"
	"github.com/Aman-CERP/subseq/internal/output"
	"github.com/Aman-CERP/subseq/internal/search"
	"github.com/Aman-CERP/subseq/internal/ui"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SUBSEQ_"

// Config represents the complete subseq configuration.
// Once Validate has passed the value is treated as read-only; components
// receive derived values (BonusModel, OutputOptions, EngineConfig) and never
// consult the environment themselves.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Threads    int              `yaml:"threads" json:"threads"`
	Limit      int              `yaml:"limit" json:"limit"`
	CacheSize  int              `yaml:"cache_size" json:"cache_size"`
	Boundaries BoundariesConfig `yaml:"boundaries" json:"boundaries"`
	Marks      MarksConfig      `yaml:"marks" json:"marks"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Weights    match.Weights    `yaml:"weights" json:"weights"`
	LogLevel   string           `yaml:"log_level" json:"log_level"`
}

// BoundariesConfig holds the three boundary character classes, highest
// priority first.
type BoundariesConfig struct {
	Level1 string `yaml:"level1" json:"level1"`
	Level2 string `yaml:"level2" json:"level2"`
	Level3 string `yaml:"level3" json:"level3"`
}

// MarksConfig configures match highlighting.
// Before and After may contain escape sequences such as \e[32m.
type MarksConfig struct {
	Before string `yaml:"before" json:"before"`
	After  string `yaml:"after" json:"after"`
	Color  string `yaml:"color" json:"color"`
}

// OutputConfig configures the positions prefix.
type OutputConfig struct {
	Positions bool   `yaml:"positions" json:"positions"`
	Separator string `yaml:"separator" json:"separator"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version:   1,
		Threads:   runtime.NumCPU(),
		Limit:     0,
		CacheSize: match.DefaultCacheSize,
		Boundaries: BoundariesConfig{
			Level1: match.DefaultLevel1,
			Level2: match.DefaultLevel2,
			Level3: match.DefaultLevel3,
		},
		Marks: MarksConfig{
			Color: string(ui.ColorNever),
		},
		Output: OutputConfig{
			Separator: output.DefaultSeparator,
		},
		Weights:  match.DefaultWeights(),
		LogLevel: "warn",
	}
}

// GetUserConfigPath returns the path to the user configuration file.
// It follows XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/subseq/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/subseq/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "subseq", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "subseq", "config.yaml")
	}
	return filepath.Join(home, ".config", "subseq", "config.yaml")
}

// Load builds the configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/subseq/config.yaml), if present
//  3. explicitPath, if non-empty (must exist)
//  4. Environment variables (SUBSEQ_*)
//
// Flags are applied by the caller afterwards, followed by Validate.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	userPath := GetUserConfigPath()
	if fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return nil, suberrors.New(suberrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", explicitPath), nil).
				WithSuggestion("Check the --config path")
		}
		if err := cfg.loadYAML(explicitPath); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// loadYAML decodes path over the current values. Keys absent from the file
// keep their previous value; keys present with an empty value override it.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return suberrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return suberrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err).
			WithDetail("path", path)
	}

	slog.Debug("config_loaded", slog.String("path", path))
	return nil
}

// applyEnvOverrides applies SUBSEQ_* environment variable overrides.
// Unparseable numbers are logged and ignored.
func (c *Config) applyEnvOverrides() {
	envInt("THREADS", &c.Threads)
	envInt("LIMIT", &c.Limit)
	envInt("CACHE_SIZE", &c.CacheSize)

	envString("LEVEL1", &c.Boundaries.Level1)
	envString("LEVEL2", &c.Boundaries.Level2)
	envString("LEVEL3", &c.Boundaries.Level3)
	envString("MARK_BEFORE", &c.Marks.Before)
	envString("MARK_AFTER", &c.Marks.After)
	envString("COLOR", &c.Marks.Color)
	envString("LOG_LEVEL", &c.LogLevel)
}

func envInt(name string, dst *int) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		slog.Warn("ignoring invalid env override",
			slog.String("var", EnvPrefix+name), slog.String("value", v))
		return
	}
	*dst = n
}

// envString applies a set variable even when empty, so boundary classes
// can be cleared from the environment.
func envString(name string, dst *string) {
	if v, ok := os.LookupEnv(EnvPrefix + name); ok {
		*dst = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Threads < 0 {
		return suberrors.New(suberrors.ErrCodeInvalidThreads,
			fmt.Sprintf("threads must be non-negative, got %d", c.Threads), nil).
			WithSuggestion("Use 0 to run single-threaded")
	}
	if c.Limit < 0 {
		return suberrors.ValidationError(fmt.Sprintf("limit must be non-negative, got %d", c.Limit), nil)
	}
	if c.CacheSize < 0 {
		return suberrors.ValidationError(fmt.Sprintf("cache_size must be non-negative, got %d", c.CacheSize), nil)
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if _, err := ui.ParseColorMode(c.Marks.Color); err != nil {
		return err
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return suberrors.ConfigError(
			fmt.Sprintf("log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.LogLevel), nil)
	}

	return nil
}

// BonusModel builds the immutable bonus model for the configured classes
// and weights.
func (c *Config) BonusModel() *match.BonusModel {
	return match.NewBonusModel(
		[match.NumLevels]string{c.Boundaries.Level1, c.Boundaries.Level2, c.Boundaries.Level3},
		c.Weights)
}

// EngineConfig returns the search engine settings.
func (c *Config) EngineConfig() search.EngineConfig {
	return search.EngineConfig{
		Threads:   c.Threads,
		CacheSize: c.CacheSize,
	}
}

// OutputOptions returns the formatter options with mark escapes resolved.
func (c *Config) OutputOptions() output.Options {
	return output.Options{
		Before:    output.Unescape(c.Marks.Before),
		After:     output.Unescape(c.Marks.After),
		Positions: c.Output.Positions,
		Separator: output.Unescape(c.Output.Separator),
		Limit:     c.Limit,
	}
}

// ColorMode returns the parsed colour mode. Validate must have passed.
func (c *Config) ColorMode() ui.ColorMode {
	mode, err := ui.ParseColorMode(c.Marks.Color)
	if err != nil {
		return ui.ColorNever
	}
	return mode
}

// Encode writes the configuration as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return suberrors.New(suberrors.ErrCodeOutputWrite, "failed to encode config", err)
	}
	return enc.Close()
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
