// Package config provides configuration management for the Pattern Edge application.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/pattern-edge/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Datasource DatasourceConfig `mapstructure:"datasource" validate:"required"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Risk       RiskConfig       `mapstructure:"risk" validate:"required"`
	Selection  SelectionConfig  `mapstructure:"selection" validate:"required"`
	Odds       OddsConfig       `mapstructure:"odds" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Health     HealthConfig     `mapstructure:"health" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// DatasourceConfig represents historical results download configuration
type DatasourceConfig struct {
	Provider         string        `mapstructure:"provider" validate:"required,oneof=football-data csv"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"required,gt=0"`
	MaxRetries       int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RateLimit        float64       `mapstructure:"rate_limit" validate:"required,gt=0"`
	Burst            int           `mapstructure:"burst" validate:"required,gt=0"`
	FailureThreshold int           `mapstructure:"failure_threshold" validate:"required,gt=0"`
	Cooldown         time.Duration `mapstructure:"cooldown" validate:"required,gt=0"`
	Competitions     []string      `mapstructure:"competitions" validate:"required,min=1,dive,competition"`
	Seasons          []string      `mapstructure:"seasons" validate:"required,min=1"`
}

// WindowConfig represents a single timeframe within a weight profile
type WindowConfig struct {
	Days   int     `mapstructure:"days" validate:"required,gt=0"`
	Weight float64 `mapstructure:"weight" validate:"gte=0,lte=1"`
}

// AdjustmentsConfig represents the tunable constants layered on top of the
// raw weighted confidence
type AdjustmentsConfig struct {
	TrendThreshold     float64 `mapstructure:"trend_threshold" validate:"gte=0,lte=1"`
	TrendBoost         float64 `mapstructure:"trend_boost" validate:"gte=0,lte=1"`
	ConsistencyLow     float64 `mapstructure:"consistency_low" validate:"gte=0,lte=1"`
	ConsistencyHigh    float64 `mapstructure:"consistency_high" validate:"gte=0,lte=1"`
	ConsistencyBoost   float64 `mapstructure:"consistency_boost" validate:"gte=0,lte=1"`
	ConsistencyPenalty float64 `mapstructure:"consistency_penalty" validate:"gte=0,lte=1"`
	SamplePenalty      float64 `mapstructure:"sample_penalty" validate:"gte=0,lte=1"`
}

// CacheConfig represents window-statistic cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"required,gt=0"`
}

// EngineConfig represents confidence engine configuration
type EngineConfig struct {
	DefaultProfile      string                    `mapstructure:"default_profile" validate:"required"`
	Profiles            map[string][]WindowConfig `mapstructure:"profiles" validate:"required,min=1"`
	CompetitionProfiles map[string]string         `mapstructure:"competition_profiles"`
	Adjustments         AdjustmentsConfig         `mapstructure:"adjustments" validate:"required"`
	Cache               CacheConfig               `mapstructure:"cache" validate:"required"`
}

// RiskConfig represents bet-type risk penalty configuration
type RiskConfig struct {
	DefaultPenalty    float64            `mapstructure:"default_penalty" validate:"gte=0,lte=0.10"`
	PatternPenalties  map[string]float64 `mapstructure:"pattern_penalties"`
	CategoryPenalties map[string]float64 `mapstructure:"category_penalties"`
}

// SelectionConfig represents per-fixture bet selection configuration
type SelectionConfig struct {
	VarianceRanking []string `mapstructure:"variance_ranking" validate:"required,min=1,dive,category"`
}

// OddsConfig represents the nominal decimal odds table used for settlement
type OddsConfig struct {
	Default  float64            `mapstructure:"default" validate:"required,gt=1"`
	Patterns map[string]float64 `mapstructure:"patterns"`
}

// ResampleConfig represents bootstrap resampling configuration
type ResampleConfig struct {
	Enabled    bool  `mapstructure:"enabled"`
	Iterations int   `mapstructure:"iterations" validate:"required,gte=100"`
	Seed       int64 `mapstructure:"seed"`
}

// BacktestConfig represents walk-forward evaluation configuration
type BacktestConfig struct {
	StartDate  string         `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string         `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	Workers    int            `mapstructure:"workers" validate:"required,gt=0,lte=64"`
	Resample   ResampleConfig `mapstructure:"resample" validate:"required"`
	OutputPath string         `mapstructure:"output_path" validate:"required"`
}

// SchedulerConfig represents background job configuration
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	SeasonRefresh    string `mapstructure:"season_refresh" validate:"required"`
	DailyPredictions string `mapstructure:"daily_predictions" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health endpoint configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
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

// BuildProfiles converts the configured profile definitions into validated
// weight profiles keyed by name
func (c *Config) BuildProfiles() (map[string]*models.WeightProfile, error) {
	profiles := make(map[string]*models.WeightProfile, len(c.Engine.Profiles))
	for name, windows := range c.Engine.Profiles {
		converted := make([]models.TimeframeWindow, len(windows))
		for i, w := range windows {
			converted[i] = models.TimeframeWindow{Days: w.Days, Weight: w.Weight}
		}
		profile, err := models.NewWeightProfile(name, converted)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
		profiles[name] = &profile
	}
	return profiles, nil
}

// ProfileNameFor resolves the weight profile assigned to a competition,
// falling back to the default profile
func (c *Config) ProfileNameFor(competition string) string {
	if name, ok := c.Engine.CompetitionProfiles[competition]; ok {
		return name
	}
	return c.Engine.DefaultProfile
}

// BuildNominalOdds converts the odds table into a validated price lookup
func (c *Config) BuildNominalOdds() (*models.NominalOdds, error) {
	return models.NewNominalOdds(c.Odds.Patterns, c.Odds.Default)
}

// BacktestWindow parses the configured evaluation date range
func (c *Config) BacktestWindow() (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Backtest.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid backtest start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Backtest.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid backtest end date: %w", err)
	}
	return models.Day(start), models.Day(end), nil
}
