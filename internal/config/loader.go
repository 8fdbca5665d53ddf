// Package config provides configuration management for the Value Better application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "VALUE_BETTER"

// Load reads and parses the configuration from file and environment
// variables. Environment variable placeholders in the YAML file (${VAR})
// are expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults applied for every
// optional backtest knob, so downstream code never has to special-case an
// unset field.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "value-better")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("backtest.starting_bankroll", 1000.0)
	v.SetDefault("backtest.strategy", "capital_growth")
	v.SetDefault("backtest.min_edge_pct", 2.0)
	v.SetDefault("backtest.max_stake_pct", 10.0)
	v.SetDefault("backtest.growth_fraction", 0.25)
	v.SetDefault("backtest.min_confidence", 0.5)
	v.SetDefault("backtest.monte_carlo_iterations", 1000)
	v.SetDefault("backtest.output_path", "./output/backtest_report.json")

	v.SetDefault("classifier.blend_weight", 0.3)
	v.SetDefault("classifier.timeout_seconds", 10)
	v.SetDefault("classifier.cache_ttl_seconds", 300)
	v.SetDefault("classifier.cache_max_size", 1000)

	v.SetDefault("data_source.timeout_seconds", 30)
	v.SetDefault("data_source.rate_limit", 10.0)

	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.port", 9090)
}
