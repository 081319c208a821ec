package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Price source kinds accepted by the price_source key.
const (
	SourceHTTP     = "http"
	SourceFile     = "file"
	SourceOneClick = "oneclick"
)

// Config holds the application configuration
type Config struct {
	PriceSource    string
	PricesURL      string
	PricesFile     string
	OneClickJWT    string
	IconBaseURL    string
	RequestTimeout time.Duration
	CacheTTL       time.Duration
	LogLevel       string
	Simulator      SimulatorConfig
}

// SimulatorConfig tunes the simulated swap execution
type SimulatorConfig struct {
	SuccessRate float64
	Delay       time.Duration
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".token-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	// Set default values
	v.SetDefault("prices_url", "https://interview.switcheo.com/prices.json")
	v.SetDefault("prices_file", "")
	v.SetDefault("oneclick_jwt", "")
	v.SetDefault("icon_base_url", "https://raw.githubusercontent.com/Switcheo/token-icons/main/tokens")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("success_rate", 0.8)
	v.SetDefault("execution_delay", "2s")
	v.SetDefault("log_level", "info")

	// Read from environment variables
	v.SetEnvPrefix("TOKEN_SWAP")
	v.AutomaticEnv()

	// Read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		PriceSource:    strings.ToLower(strings.TrimSpace(v.GetString("price_source"))),
		PricesURL:      v.GetString("prices_url"),
		PricesFile:     v.GetString("prices_file"),
		OneClickJWT:    v.GetString("oneclick_jwt"),
		IconBaseURL:    strings.TrimRight(v.GetString("icon_base_url"), "/"),
		RequestTimeout: v.GetDuration("request_timeout"),
		CacheTTL:       v.GetDuration("cache_ttl"),
		LogLevel:       v.GetString("log_level"),
		Simulator: SimulatorConfig{
			SuccessRate: clamp01(v.GetFloat64("success_rate")),
			Delay:       v.GetDuration("execution_delay"),
		},
	}

	// Without an explicit source, a configured snapshot file implies the file source
	if cfg.PriceSource == "" {
		cfg.PriceSource = SourceHTTP
		if cfg.PricesFile != "" {
			cfg.PriceSource = SourceFile
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.PriceSource {
	case SourceHTTP:
		if c.PricesURL == "" {
			return fmt.Errorf("prices URL is required for the http price source. Set TOKEN_SWAP_PRICES_URL")
		}
	case SourceFile:
		if c.PricesFile == "" {
			return fmt.Errorf("prices file is required for the file price source. Set TOKEN_SWAP_PRICES_FILE")
		}
	case SourceOneClick:
		if c.OneClickJWT == "" {
			return fmt.Errorf("JWT token not found. Please set TOKEN_SWAP_ONECLICK_JWT environment variable or add oneclick_jwt to .token-swap.yaml")
		}
	default:
		return fmt.Errorf("unknown price source %q (expected %s, %s or %s)", c.PriceSource, SourceHTTP, SourceFile, SourceOneClick)
	}
	if c.RequestTimeout < 0 || c.CacheTTL < 0 || c.Simulator.Delay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
