// Package config provides configuration management for the Value Better application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	DataSource DataSourceConfig `mapstructure:"data_source"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// DataSourceConfig represents the historical match data provider
type DataSourceConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// ClassifierConfig represents the external outcome classifier service
type ClassifierConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	URL             string  `mapstructure:"url" validate:"omitempty,url"`
	APIKey          string  `mapstructure:"api_key"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"omitempty,gt=0"`
	CacheMaxSize    int     `mapstructure:"cache_max_size" validate:"omitempty,gt=0"`
	BlendWeight     float64 `mapstructure:"blend_weight" validate:"gte=0,lte=1"`
}

// BacktestConfig represents backtesting configuration. Every recognized
// option is enumerated here; defaults live in LoadWithDefaults, not at the
// point of use.
type BacktestConfig struct {
	StartingBankroll     float64 `mapstructure:"starting_bankroll" validate:"required,gt=0"`
	Strategy             string  `mapstructure:"strategy" validate:"required,strategy"`
	MinEdgePct           float64 `mapstructure:"min_edge_pct" validate:"gte=0"`
	MaxStakePct          float64 `mapstructure:"max_stake_pct" validate:"gte=0,lte=100"`
	GrowthFraction       float64 `mapstructure:"growth_fraction" validate:"gte=0,lte=1"`
	MinConfidence        float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	StopLossPct          float64 `mapstructure:"stop_loss_pct" validate:"gte=0,lte=100"`
	TakeProfitPct        float64 `mapstructure:"take_profit_pct" validate:"gte=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"required,gt=0"`
	Workers              int     `mapstructure:"workers" validate:"gte=0"`
	Seed                 int64   `mapstructure:"seed"`
	RiskFreeRate         float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
	OutputPath           string  `mapstructure:"output_path"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
