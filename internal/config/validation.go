// Package config provides configuration management for the Pattern Edge application.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/pattern-edge/internal/models"
)

// competitionNamePattern matches canonical competition names such as
// premier_league and serie_a. Whether a datasource can actually serve a
// competition is checked at fetch time.
var competitionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("competition", validateCompetitionName)
	v.RegisterValidation("category", validateCategory)

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

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	env := fl.Field().String()
	switch env {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	level := fl.Field().String()
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCompetitionName validates a canonical competition name
func validateCompetitionName(fl validator.FieldLevel) bool {
	return competitionNamePattern.MatchString(fl.Field().String())
}

// validateCategory validates a bet category name
func validateCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).Valid()
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Validate backtest date range
	startDate, err := time.Parse("2006-01-02", cfg.Backtest.StartDate)
	if err != nil {
		return fmt.Errorf("invalid backtest start_date format: %w", err)
	}

	endDate, err := time.Parse("2006-01-02", cfg.Backtest.EndDate)
	if err != nil {
		return fmt.Errorf("invalid backtest end_date format: %w", err)
	}

	if !startDate.Before(endDate) {
		return fmt.Errorf("backtest start_date must be before end_date")
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	// Validate connection pool settings
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	// Every configured profile must be a valid weight distribution
	profiles, err := cfg.BuildProfiles()
	if err != nil {
		return err
	}

	// The default profile and every competition assignment must reference
	// a configured profile
	if _, ok := profiles[cfg.Engine.DefaultProfile]; !ok {
		return &models.ConfigError{
			Field:  "engine.default_profile",
			Reason: fmt.Sprintf("profile %q is not defined", cfg.Engine.DefaultProfile),
		}
	}
	for competition, name := range cfg.Engine.CompetitionProfiles {
		if _, ok := profiles[name]; !ok {
			return &models.ConfigError{
				Field:  fmt.Sprintf("engine.competition_profiles.%s", competition),
				Reason: fmt.Sprintf("profile %q is not defined", name),
			}
		}
	}

	// Risk penalties must stay within the supported range
	if err := validatePenaltyRange("risk.default_penalty", cfg.Risk.DefaultPenalty); err != nil {
		return err
	}
	for name, penalty := range cfg.Risk.PatternPenalties {
		if err := validatePenaltyRange(fmt.Sprintf("risk.pattern_penalties.%s", name), penalty); err != nil {
			return err
		}
	}
	for name, penalty := range cfg.Risk.CategoryPenalties {
		if err := validatePenaltyRange(fmt.Sprintf("risk.category_penalties.%s", name), penalty); err != nil {
			return err
		}
	}
	for name := range cfg.Risk.CategoryPenalties {
		if !models.Category(name).Valid() {
			return &models.ConfigError{
				Field:  fmt.Sprintf("risk.category_penalties.%s", name),
				Reason: "unknown category",
			}
		}
	}

	// The variance ranking must cover distinct, valid categories
	seen := make(map[string]bool, len(cfg.Selection.VarianceRanking))
	for _, category := range cfg.Selection.VarianceRanking {
		if seen[category] {
			return &models.ConfigError{
				Field:  "selection.variance_ranking",
				Reason: fmt.Sprintf("category %q listed more than once", category),
			}
		}
		seen[category] = true
	}

	// The nominal odds table must contain valid decimal prices
	if _, err := cfg.BuildNominalOdds(); err != nil {
		return err
	}

	return nil
}

// validatePenaltyRange enforces the supported risk penalty range
func validatePenaltyRange(field string, penalty float64) error {
	if penalty < 0 || penalty > models.MaxRiskPenalty {
		return &models.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("penalty %.4f outside range [0, %.2f]", penalty, models.MaxRiskPenalty),
		}
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "competition":
			errMsg += fmt.Sprintf("- Field '%s' must be a canonical competition name such as serie_a, got '%v'\n", field, value)
		case "category":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: GOALS, CORNERS, CARDS, RESULT\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		// Production must have SSL enabled
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}

		// Production should not run on placeholder credentials
		if isTestCredential(cfg.Database.Password) {
			return fmt.Errorf("production environment should not use test database credentials")
		}
	}

	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
