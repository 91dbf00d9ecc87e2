// Package main provides the entry point for the data ingestion service: it
// keeps the match archive current and writes the daily predictions.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/database"
	"github.com/yourusername/pattern-edge/internal/datasource"
	"github.com/yourusername/pattern-edge/internal/engine"
	"github.com/yourusername/pattern-edge/internal/health"
	"github.com/yourusername/pattern-edge/internal/logger"
	"github.com/yourusername/pattern-edge/internal/patterns"
	"github.com/yourusername/pattern-edge/internal/repository"
	"github.com/yourusername/pattern-edge/internal/risk"
	"github.com/yourusername/pattern-edge/internal/scheduler"
	"github.com/yourusername/pattern-edge/internal/selection"
	"github.com/yourusername/pattern-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Pattern Edge data ingestion service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and schema
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create repositories")
	}

	source, err := datasource.New(&cfg.Datasource, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create data source")
	}
	appLog.WithField("source", source.Name()).Info("Data source initialized")

	ingestionSvc := service.NewIngestionService(source, repos.Match, nil, nil, appLog, 0)
	predictionSvc, err := buildPredictionService(cfg, repos, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create prediction service")
	}

	// Health and metrics endpoints
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		MetricsPath: metricsPath(cfg),
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Background jobs
	jobs := scheduler.NewScheduler(ingestionSvc, predictionSvc, appLog)
	if cfg.Scheduler.Enabled {
		if err := jobs.ScheduleSeasonRefresh(cfg.Scheduler.SeasonRefresh, cfg.Datasource.Competitions, cfg.Datasource.Seasons); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule season refresh")
		}
		if err := jobs.SchedulePredictionSweep(cfg.Scheduler.DailyPredictions); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule prediction sweep")
		}
		if err := jobs.Start(); err != nil {
			appLog.WithError(err).Fatal("Failed to start scheduler")
		}
		appLog.WithField("next_run", jobs.NextRun().Format(time.RFC3339)).Info("Scheduler running")
	} else {
		appLog.Warn("Scheduler disabled; only the initial sync will run")
	}

	healthServer.SetReady(true)

	// Backfill the configured seasons so a fresh deployment starts with a
	// full archive. Scheduled refreshes only add the matchdays since.
	go func() {
		report, err := ingestionSvc.IngestSeasons(ctx, cfg.Datasource.Competitions, cfg.Datasource.Seasons)
		if err != nil {
			appLog.WithError(err).Error("Initial season sync aborted")
			return
		}
		appLog.WithFields(logrus.Fields{
			"rows":     report.Rows,
			"inserted": report.Inserted,
			"skipped":  report.SkippedTotal(),
			"errors":   report.Errors,
		}).Info("Initial season sync complete")
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := jobs.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Pattern Edge data ingestion service shut down")
}

func buildPredictionService(cfg *config.Config, repos *repository.Repositories, appLog *logrus.Logger) (*service.PredictionService, error) {
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

func metricsPath(cfg *config.Config) string {
	if !cfg.Metrics.Enabled {
		return ""
	}
	return cfg.Metrics.Path
}
