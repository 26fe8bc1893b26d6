package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/reliefline/server/internal/lib/profile"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Elevation ElevationConfig `mapstructure:"elevation"`
	Sampling  SamplingConfig  `mapstructure:"sampling"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	CorsOrigins  string `mapstructure:"cors_origins"`
}

type ElevationConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type SamplingConfig struct {
	InitialSampleCount int `mapstructure:"initial_sample_count"`
	RefinementRounds   int `mapstructure:"refinement_rounds"`
	InterRoundDelayMs  int `mapstructure:"inter_round_delay_ms"`
	SettleDelayMs      int `mapstructure:"settle_delay_ms"`
}

// Options translates the sampling section into sampler options.
func (s SamplingConfig) Options() profile.Options {
	return profile.Options{
		InitialSampleCount: s.InitialSampleCount,
		RefinementRounds:   s.RefinementRounds,
		InterRoundDelay:    time.Duration(s.InterRoundDelayMs) * time.Millisecond,
		SettleDelay:        time.Duration(s.SettleDelayMs) * time.Millisecond,
	}
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.cors_origins", "*")
	v.SetDefault("elevation.api_key", "")
	v.SetDefault("elevation.base_url", "https://maps.googleapis.com")
	v.SetDefault("sampling.initial_sample_count", 15)
	v.SetDefault("sampling.refinement_rounds", 3)
	v.SetDefault("sampling.inter_round_delay_ms", 300)
	v.SetDefault("sampling.settle_delay_ms", 400)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: RELIEFLINE_ELEVATION_API_KEY → elevation.api_key
	v.SetEnvPrefix("RELIEFLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Elevation.BaseURL == "" {
		errs = append(errs, "elevation.base_url is required")
	}
	if c.Sampling.InitialSampleCount < 2 {
		errs = append(errs, fmt.Sprintf("sampling.initial_sample_count must be at least 2, got %d", c.Sampling.InitialSampleCount))
	}
	if c.Sampling.RefinementRounds < 0 {
		errs = append(errs, "sampling.refinement_rounds must not be negative")
	}
	if c.Sampling.InterRoundDelayMs < 0 {
		errs = append(errs, "sampling.inter_round_delay_ms must not be negative")
	}
	if c.Sampling.SettleDelayMs < 0 {
		errs = append(errs, "sampling.settle_delay_ms must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
