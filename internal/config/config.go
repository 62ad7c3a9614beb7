// Package config loads process-level bootstrap settings (which
// venues to drive, how to reach the catalog database, and logging)
// from a YAML file with environment-variable overrides, grounded on
// polymarket-mm's config.Load pattern.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level bootstrap configuration.
type Config struct {
	Venues   []string       `mapstructure:"venues"`
	Database DatabaseConfig `mapstructure:"database"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig points at the catalog store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConns        int32         `mapstructure:"max_conns"`
}

// CatalogConfig selects how catalog data is sourced.
type CatalogConfig struct {
	// InMemory, when true, uses a fixture catalog instead of querying
	// Database — useful for local demonstration and tests.
	InMemory bool `mapstructure:"in_memory"`
}

// EngineConfig tunes the per-venue generation engine.
type EngineConfig struct {
	TradingRequestBufferSize int           `mapstructure:"trading_request_buffer_size"`
	TickInterval             time.Duration `mapstructure:"tick_interval"`
}

// LoggingConfig controls the zap logger's verbosity. Format is read
// but not applied: logging.New always builds a JSON encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config from a YAML file, applying ORDERGEN_*
// environment-variable overrides on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("ORDERGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("engine.trading_request_buffer_size", 256)
	v.SetDefault("engine.tick_interval", "100ms")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("database.connect_timeout", "5s")
	v.SetDefault("database.max_conns", 10)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the engine cannot start without.
func (c *Config) Validate() error {
	if len(c.Venues) == 0 {
		return fmt.Errorf("config: at least one venue id is required")
	}
	if !c.Catalog.InMemory && c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required unless catalog.in_memory is set")
	}
	if c.Engine.TradingRequestBufferSize <= 0 {
		return fmt.Errorf("config: engine.trading_request_buffer_size must be > 0")
	}
	return nil
}
