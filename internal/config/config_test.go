// Package config provides configuration management for the Pattern Edge application.
package config

import (
	"os"
	"testing"

	"github.com/yourusername/pattern-edge/internal/models"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	patternEdgeName              = "pattern-edge"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
	balancedProfile              = "balanced"
	stabilityProfile             = "stability"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != patternEdgeName {
		t.Errorf("expected app name '%s', got '%s'", patternEdgeName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if cfg.Engine.DefaultProfile != balancedProfile {
		t.Errorf("expected default profile '%s', got '%s'", balancedProfile, cfg.Engine.DefaultProfile)
	}

	if len(cfg.Engine.Profiles) != 2 {
		t.Errorf("expected 2 weight profiles, got %d", len(cfg.Engine.Profiles))
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	// Set an environment variable
	os.Setenv("PATTERN_EDGE_APP_NAME", testAppName)
	defer os.Unsetenv("PATTERN_EDGE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidCategoryRanking tests validation of unknown categories
func TestValidateInvalidCategoryRanking(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Selection.VarianceRanking = []string{"FOO", "BAR"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid categories")
	}

	if !containsSubstring(err.Error(), "VarianceRanking") {
		t.Errorf("expected variance ranking validation error, got: %v", err)
	}
}

// TestValidateDuplicateCategoryRanking tests rejection of repeated categories
func TestValidateDuplicateCategoryRanking(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Selection.VarianceRanking = []string{"CARDS", "CORNERS", "CARDS"}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for duplicate categories")
	}

	if !models.IsConfigError(err) {
		t.Errorf("expected a config error, got: %v", err)
	}
}

// TestValidateEmptyCategoryRanking tests validation of an empty ranking
func TestValidateEmptyCategoryRanking(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Selection.VarianceRanking = []string{}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for empty variance ranking")
	}
}

// TestValidateProfileWeightSum tests rejection of profiles whose weights
// do not sum to one
func TestValidateProfileWeightSum(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Engine.Profiles[balancedProfile][0].Weight = 0.90
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for weights not summing to 1")
	}
}

// TestValidateUnknownDefaultProfile tests rejection of a default profile
// that is not defined
func TestValidateUnknownDefaultProfile(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Engine.DefaultProfile = "missing"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unknown default profile")
	}

	if !models.IsConfigError(err) {
		t.Errorf("expected a config error, got: %v", err)
	}
}

// TestValidateUnknownCompetitionProfile tests rejection of a competition
// assignment referencing an undefined profile
func TestValidateUnknownCompetitionProfile(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Engine.CompetitionProfiles["premier_league"] = "missing"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unknown competition profile")
	}
}

// TestValidatePenaltyOutOfRange tests rejection of penalties above the cap
func TestValidatePenaltyOutOfRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Risk.PatternPenalties["over_3_5_goals"] = 0.20
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for penalty above cap")
	}

	if !models.IsConfigError(err) {
		t.Errorf("expected a config error, got: %v", err)
	}
}

// TestValidateOddsAtOrBelowEvens tests rejection of nominal odds at 1.0
func TestValidateOddsAtOrBelowEvens(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Odds.Patterns["btts"] = 1.0
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for odds at 1.0")
	}
}

// TestValidateBacktestDateOrder tests rejection of inverted date ranges
func TestValidateBacktestDateOrder(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Backtest.StartDate = "2024-05-31"
	cfg.Backtest.EndDate = "2023-08-01"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for start date after end date")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestProfileNameFor tests per-competition profile resolution
func TestProfileNameFor(t *testing.T) {
	cfg := &Config{
		Engine: EngineConfig{
			DefaultProfile: balancedProfile,
			CompetitionProfiles: map[string]string{
				"serie_a": stabilityProfile,
			},
		},
	}

	if name := cfg.ProfileNameFor("serie_a"); name != stabilityProfile {
		t.Errorf("expected profile '%s' for serie_a, got '%s'", stabilityProfile, name)
	}

	if name := cfg.ProfileNameFor("premier_league"); name != balancedProfile {
		t.Errorf("expected fallback profile '%s', got '%s'", balancedProfile, name)
	}
}

// TestBuildProfiles tests conversion of configured windows into weight profiles
func TestBuildProfiles(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	profiles, err := cfg.BuildProfiles()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	balanced, ok := profiles[balancedProfile]
	if !ok {
		t.Fatal("expected balanced profile to be built")
	}

	if balanced.ShortestDays() != 7 {
		t.Errorf("expected shortest window of 7 days, got %d", balanced.ShortestDays())
	}

	if balanced.LongestDays() != 365 {
		t.Errorf("expected longest window of 365 days, got %d", balanced.LongestDays())
	}
}

// TestBuildNominalOdds tests conversion of the odds table
func TestBuildNominalOdds(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	odds, err := cfg.BuildNominalOdds()
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if price := odds.Price("over_2_5_goals"); price.String() != "2.2" {
		t.Errorf("expected price 2.2 for over_2_5_goals, got %s", price)
	}

	if price := odds.Price("never_configured"); price.String() != "2" {
		t.Errorf("expected default price 2 for unknown pattern, got %s", price)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	// Set environment variable
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	// Ensure environment variable is not set
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// os.ExpandEnv replaces unset variables with the empty string
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset env var, got %q", cfg.Database.Password)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
