/*
Package config loads and validates the server configuration.

PURPOSE:
  One TOML file describes the whole installation: where to listen, where
  the data lives, which tokens may mutate it, and the engine's two
  behavioral knobs (minimum-weeks threshold, hidden-drug aggregation).
  Values can be overridden through RESERVE_* environment variables.

VALIDATION:
  Everything is checked up front so a typo fails at startup, not at the
  first request: listen address must parse, the storage driver must be a
  known backend, at least one auth token must be set, the threshold must
  be non-negative, and the auto-advance time must be HH:MM.
*/
package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers understood by the server.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// StorageConfig selects and locates the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// AutoAdvanceConfig controls the optional daily consumption job.
type AutoAdvanceConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	At      string `mapstructure:"at"` // HH:MM, local time
}

// Config holds all application configuration.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	BaseURL    string `mapstructure:"base_url"`
	Env        string `mapstructure:"env"`

	// Tokens accepted by the API's ?token= check. At least one required.
	AuthTokens []string `mapstructure:"auth_tokens"`

	Storage StorageConfig `mapstructure:"storage"`

	// Engine knobs.
	MinWeeksPerPrescription int64 `mapstructure:"min_weeks_per_prescription"`
	CountHiddenInTotals     bool  `mapstructure:"count_hidden_in_totals"`

	// Named column profiles selectable via ?columns=. Tags are validated
	// against the closed column set by the API layer at startup.
	ColumnProfiles map[string][]string `mapstructure:"column_profiles"`

	AutoAdvance AutoAdvanceConfig `mapstructure:"auto_advance"`
}

// Load reads the TOML file at path, applies RESERVE_* env overrides, and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("RESERVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default: viper only honors env overrides during
	// Unmarshal for keys it already knows about.
	v.SetDefault("listen_addr", "127.0.0.1:8000")
	v.SetDefault("base_url", "")
	v.SetDefault("env", "prod")
	v.SetDefault("auth_tokens", []string{})
	v.SetDefault("storage.driver", DriverJSON)
	v.SetDefault("storage.path", "reserves.json")
	v.SetDefault("min_weeks_per_prescription", 2)
	v.SetDefault("count_hidden_in_totals", false)
	v.SetDefault("auto_advance.enabled", false)
	v.SetDefault("auto_advance.at", "00:05")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen_addr %q: %w", cfg.ListenAddr, err)
	}

	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base_url %q: must be an absolute URL", cfg.BaseURL)
		}
	}

	if cfg.Env != "prod" && cfg.Env != "dev" {
		return fmt.Errorf("invalid env %q: must be prod or dev", cfg.Env)
	}

	if cfg.Storage.Driver != DriverJSON && cfg.Storage.Driver != DriverSQLite {
		return fmt.Errorf("invalid storage.driver %q: must be %s or %s",
			cfg.Storage.Driver, DriverJSON, DriverSQLite)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}

	if len(cfg.AuthTokens) == 0 {
		return fmt.Errorf("auth_tokens cannot be empty: mutations would be open to anyone")
	}
	for i, token := range cfg.AuthTokens {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("auth_tokens[%d] is blank", i)
		}
	}

	if cfg.MinWeeksPerPrescription < 0 {
		return fmt.Errorf("min_weeks_per_prescription must be >= 0, got %d", cfg.MinWeeksPerPrescription)
	}

	if cfg.AutoAdvance.Enabled {
		if _, err := time.Parse("15:04", cfg.AutoAdvance.At); err != nil {
			return fmt.Errorf("invalid auto_advance.at %q: must be HH:MM", cfg.AutoAdvance.At)
		}
	}

	return nil
}
