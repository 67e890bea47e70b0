// Package config provides viper-based configuration loading.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is "json" or "console".
	Format string `mapstructure:"format"`
}

// DataConfig locates the weight fragment and the character catalog.
type DataConfig struct {
	WeightsPath string `mapstructure:"weights_path"`
	CatalogPath string `mapstructure:"catalog_path"`
	// Watch reloads a source when its file changes.
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// PullConfig drives simulated pulls.
type PullConfig struct {
	BatchSize int `mapstructure:"batch_size"`
	// MaxPulls caps a single "pull n" command.
	MaxPulls int `mapstructure:"max_pulls"`
	// Seed 0 selects the crypto source.
	Seed uint64 `mapstructure:"seed"`
}

type ReportConfig struct {
	Format string `mapstructure:"format"` // "text" | "json"
}

type SpreadConfig struct {
	Trials int `mapstructure:"trials"`
	// MaxDraws caps pulls x trials for one "spread" command.
	MaxDraws int `mapstructure:"max_draws"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Data    DataConfig    `mapstructure:"data"`
	Pull    PullConfig    `mapstructure:"pull"`
	Report  ReportConfig  `mapstructure:"report"`
	Spread  SpreadConfig  `mapstructure:"spread"`
}

// Validate checks semantic constraints and reports every violation at once.
func (c Config) Validate() error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", c.Logging.Format))
	}

	if c.Data.WeightsPath == "" {
		errs = append(errs, "data.weights_path must not be empty")
	}
	if c.Data.CatalogPath == "" {
		errs = append(errs, "data.catalog_path must not be empty")
	}
	if c.Data.Debounce < 0 {
		errs = append(errs, "data.debounce must not be negative")
	}

	if c.Pull.BatchSize < 1 {
		errs = append(errs, fmt.Sprintf("pull.batch_size must be >= 1, got %d", c.Pull.BatchSize))
	}
	if c.Pull.MaxPulls < c.Pull.BatchSize {
		errs = append(errs, fmt.Sprintf("pull.max_pulls must be >= pull.batch_size, got %d", c.Pull.MaxPulls))
	}

	switch c.Report.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("report.format must be one of [text, json], got %q", c.Report.Format))
	}

	if c.Spread.Trials < 1 {
		errs = append(errs, fmt.Sprintf("spread.trials must be >= 1, got %d", c.Spread.Trials))
	}
	if c.Spread.MaxDraws < 1 {
		errs = append(errs, fmt.Sprintf("spread.max_draws must be >= 1, got %d", c.Spread.MaxDraws))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("data.weights_path", "data/weights.json")
	v.SetDefault("data.catalog_path", "data/characters.json")
	v.SetDefault("data.watch", false)
	v.SetDefault("data.debounce", 200*time.Millisecond)
	v.SetDefault("pull.batch_size", 10)
	v.SetDefault("pull.seed", 0)
	v.SetDefault("pull.max_pulls", 100000)
	v.SetDefault("report.format", "text")
	v.SetDefault("spread.trials", 1000)
	v.SetDefault("spread.max_draws", 10000000)
}

// Load reads configuration from path, applies GACHA_* environment overrides
// and validates the result. An empty path uses defaults and the environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GACHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
