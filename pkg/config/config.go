// Package config loads CLI configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Config holds the connection settings the pgrst CLI uses to reach a
// PostgREST endpoint.
type Config struct {
	BaseURL string            `mapstructure:"baseURL"`
	Schema  string            `mapstructure:"schema"`
	Token   string            `mapstructure:"token"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Headers map[string]string `mapstructure:"headers"`
	Retry   RetryConfig       `mapstructure:"retry"`
}

// RetryConfig enables the opt-in retrying transport.
type RetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"maxRetries"`
	InitialBackoff time.Duration `mapstructure:"initialBackoff"`
	MaxBackoff     time.Duration `mapstructure:"maxBackoff"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		BaseURL: "http://localhost:3000",
		Schema:  "public",
		Timeout: 5 * time.Second,
		Retry: RetryConfig{
			MaxRetries:     3,
			InitialBackoff: 100 * time.Millisecond,
			MaxBackoff:     10 * time.Second,
		},
	}
}

// Load reads config from file or environment (PGRST_ prefix). Command-line
// flags whose names match config keys override both when bound via flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("unable to bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("pgrst")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PGRST")

	// defaults double as the key registry so env vars are picked up on Unmarshal
	def := Default()
	v.SetDefault("baseURL", def.BaseURL)
	v.SetDefault("schema", def.Schema)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("token", "")
	v.SetDefault("retry.enabled", false)
	v.SetDefault("retry.maxRetries", def.Retry.MaxRetries)
	v.SetDefault("retry.initialBackoff", def.Retry.InitialBackoff)
	v.SetDefault("retry.maxBackoff", def.Retry.MaxBackoff)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &cfg, nil
}
