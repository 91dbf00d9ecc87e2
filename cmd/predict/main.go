package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/database"
	"github.com/yourusername/pattern-edge/internal/engine"
	"github.com/yourusername/pattern-edge/internal/logger"
	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/patterns"
	"github.com/yourusername/pattern-edge/internal/repository"
	"github.com/yourusername/pattern-edge/internal/risk"
	"github.com/yourusername/pattern-edge/internal/selection"
	"github.com/yourusername/pattern-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile  string
	dateFlag    string
	competition string
	store       bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Match date to predict (YYYY-MM-DD, default today UTC)")
	rootCmd.Flags().StringVarP(&competition, "competition", "l", "", "Restrict predictions to one competition")
	rootCmd.Flags().BoolVarP(&store, "store", "s", false, "Persist the recommendations")
}

var rootCmd = &cobra.Command{
	Use:     "predict",
	Short:   "Predict a matchday's fixtures and print the recommended bets",
	Long:    `Scores every fixture stored for the target date against the pattern catalog, using only history from strictly before that date, and prints at most one recommended bet per fixture.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return runPredictions(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}
	return nil
}

func runPredictions(ctx context.Context) error {
	day, err := targetDay()
	if err != nil {
		return err
	}

	svc, err := buildPredictionService()
	if err != nil {
		return err
	}

	run, err := svc.PredictDate(ctx, competition, day)
	if err != nil {
		return fmt.Errorf("prediction run failed: %w", err)
	}

	printRun(day, run)

	if store && len(run.Predictions) > 0 {
		if err := svc.Store(ctx, run); err != nil {
			return err
		}
		fmt.Printf("\nStored %d predictions.\n", len(run.Predictions))
	}
	return nil
}

func targetDay() (time.Time, error) {
	if dateFlag == "" {
		return models.Day(time.Now().UTC()), nil
	}
	day, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateFlag, err)
	}
	return models.Day(day), nil
}

func buildPredictionService() (*service.PredictionService, error) {
	eng, err := engine.New(&cfg.Engine, appLog)
	if err != nil {
		return nil, err
	}
	riskTable, err := risk.NewTable(&cfg.Risk)
	if err != nil {
		return nil, err
	}
	policy, err := selection.NewPolicy(&cfg.Selection, appLog)
	if err != nil {
		return nil, err
	}
	return service.NewPredictionService(repos.Match, repos.Prediction, patterns.Builtin(), eng, riskTable, policy, appLog)
}

func printRun(day time.Time, run *service.PredictionRun) {
	scope := competition
	if scope == "" {
		scope = "all competitions"
	}
	fmt.Printf("Predictions for %s (%s)\n\n", day.Format("2006-01-02"), scope)

	if len(run.Predictions) == 0 {
		fmt.Println("No recommended bets.")
	} else {
		fmt.Printf("%-28s %-44s %6s %6s %6s %7s\n", "PATTERN", "FIXTURE", "CONF", "ADJ", "THR", "MARGIN")
		for _, p := range run.Predictions {
			fixture := fmt.Sprintf("%s vs %s (%s)", p.HomeTeam, p.AwayTeam, p.Competition)
			fmt.Printf("%-28s %-44s %6.3f %6.3f %6.3f %+7.3f\n",
				p.PatternName, fixture, p.Confidence, p.RiskAdjusted, p.Threshold, p.Margin)
		}
	}

	if len(run.NoBet) > 0 {
		fmt.Printf("\nNo bet (%d):\n", len(run.NoBet))
		for _, skipped := range run.NoBet {
			fmt.Printf("  %s %s vs %s: %s\n",
				skipped.Fixture.Competition, skipped.Fixture.HomeTeam, skipped.Fixture.AwayTeam, skipped.Reason)
		}
	}
}
