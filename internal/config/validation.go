// Package config provides configuration management for the Value Better application.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("strategy", validateStrategy)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateStrategy(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "capital_growth", "flat_percentage", "edge_proportional":
		return true
	default:
		return false
	}
}

func validateCrossField(cfg *Config) error {
	bt := cfg.Backtest
	if bt.StopLossPct > 0 && bt.TakeProfitPct > 0 && bt.StopLossPct >= bt.TakeProfitPct {
		return fmt.Errorf("stop_loss_pct (%.1f) must be below take_profit_pct (%.1f)", bt.StopLossPct, bt.TakeProfitPct)
	}
	if cfg.Classifier.Enabled && cfg.Classifier.URL == "" {
		return fmt.Errorf("classifier.url is required when the classifier is enabled")
	}
	if cfg.DataSource.Enabled && cfg.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required when the data source is enabled")
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
