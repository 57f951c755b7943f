// Package config handles application configuration: defaults, an
// optional TOML file, and environment variable overrides, applied in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Schedule ScheduleConfig `toml:"schedule"`
	UI       UIConfig       `toml:"ui"`
}

// LLMConfig holds NL Parser provider settings.
type LLMConfig struct {
	Provider         string `toml:"provider"` // "openai", "ollama", "" (disabled)
	Model            string `toml:"model"`
	BaseURL          string `toml:"base_url"`
	BreakerCooldownS int    `toml:"breaker_cooldown_seconds"`
}

// StorageConfig holds the reference EventStore and Preference Store paths.
type StorageConfig struct {
	DBPath          string `toml:"db_path"`
	PreferencesPath string `toml:"preferences_path"`
}

// ScheduleConfig holds scheduling defaults not already fixed by the
// slot model (day bounds are fixed at 06:00-22:00 per the slot model
// and are not configurable here).
type ScheduleConfig struct {
	DefaultDurationMinutes int `toml:"default_duration_minutes"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Color bool `toml:"color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:         "",
			Model:            "gpt-4o-mini",
			BaseURL:          "http://localhost:11434",
			BreakerCooldownS: 30,
		},
		Storage: StorageConfig{
			DBPath:          defaultDBPath(),
			PreferencesPath: defaultPreferencesPath(),
		},
		Schedule: ScheduleConfig{
			DefaultDurationMinutes: 60,
		},
		UI: UIConfig{
			Color: true,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "chrono.db"
	}
	return filepath.Join(home, ".local", "share", "chrono", "chrono.db")
}

func defaultPreferencesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "preferences.json"
	}
	return filepath.Join(home, ".local", "share", "chrono", "preferences.json")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "chrono", "config.toml")
}

// Load loads configuration from the default path, merging with
// defaults and environment overrides.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path. It starts with
// defaults, overlays file config if it exists, then applies env
// overrides, then validates.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Storage.PreferencesPath = expandPath(cfg.Storage.PreferencesPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHRONO_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("CHRONO_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("CHRONO_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("CHRONO_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("CHRONO_PREFERENCES_PATH"); v != "" {
		cfg.Storage.PreferencesPath = v
	}
	if v := os.Getenv("CHRONO_DEFAULT_DURATION_MINUTES"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Schedule.DefaultDurationMinutes = n
		}
	}
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a positive integer: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return 0, fmt.Errorf("not a positive integer: %q", s)
	}
	return n, nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Storage.PreferencesPath == "" {
		return errors.New("preferences_path must be set")
	}
	if c.Schedule.DefaultDurationMinutes <= 0 {
		return errors.New("default_duration_minutes must be positive")
	}
	if c.LLM.BreakerCooldownS <= 0 {
		return errors.New("breaker_cooldown_seconds must be positive")
	}
	if c.LLM.Provider != "" && c.LLM.Provider != "openai" && c.LLM.Provider != "ollama" {
		return fmt.Errorf("unknown llm provider: %q", c.LLM.Provider)
	}
	return nil
}

// NLParserEnabled reports whether a provider is configured at all.
func (c *Config) NLParserEnabled() bool {
	return c.LLM.Provider != ""
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
