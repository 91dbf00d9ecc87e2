// Package main provides the entry point for the walk-forward backtest CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/backtest"
	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/corpus"
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

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		competition = flag.String("competition", "", "Restrict the run to one competition")
		startDate   = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate     = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		profileName = flag.String("profile", "", "Pin every estimate to one weight profile")
		csvDir      = flag.String("csv-dir", "", "Build the corpus from season CSV files instead of the database")
		workers     = flag.Int("workers", 0, "Parallel date workers (default from config)")
		sweep       = flag.Bool("sweep", false, "Evaluate every configured profile and rank them")
		resample    = flag.Bool("resample", false, "Bootstrap the settled bets after the run")
		save        = flag.Bool("save", false, "Persist the run result (database corpus only)")
		output      = flag.String("output", "", "Report directory (default from config)")
	)
	flag.Parse()

	cfg := loadConfig(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	ctx := context.Background()

	start, end := evaluationWindow(cfg, *startDate, *endDate, appLog)
	profiles := buildProfiles(cfg, appLog)

	var repos *repository.Repositories
	var c *corpus.Corpus
	if *csvDir != "" {
		c = corpusFromCSV(*csvDir, appLog)
	} else {
		db, err := database.Initialize(ctx, cfg)
		if err != nil {
			appLog.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		repos, err = repository.NewRepositories(db)
		if err != nil {
			appLog.Fatalf("Failed to create repositories: %v", err)
		}
		c = corpusFromDatabase(ctx, repos, profiles, start, end, appLog)
	}
	if c.Len() == 0 {
		appLog.Fatal("Corpus is empty; ingest match data first")
	}

	params := buildParams(cfg, c, profiles, *competition, *profileName, *workers, start, end, appLog)

	appLog.WithFields(logrus.Fields{
		"corpus":      c.Len(),
		"competition": params.Competition,
		"start":       start.Format("2006-01-02"),
		"end":         end.Format("2006-01-02"),
	}).Info("Starting walk-forward evaluation")

	if *sweep {
		runSweep(ctx, params, profiles, appLog)
		return
	}

	result := runEvaluation(ctx, params, appLog)
	fmt.Print(backtest.GenerateConsoleReport(result))

	writeReports(result, reportDir(cfg, *output), appLog)

	if *resample || cfg.Backtest.Resample.Enabled {
		runResample(result, cfg.Backtest.Resample, appLog)
	}
	if *save {
		saveResult(ctx, repos, result, appLog)
	}
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
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
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func evaluationWindow(cfg *config.Config, startOverride, endOverride string, appLog *logrus.Logger) (time.Time, time.Time) {
	start, end, err := cfg.BacktestWindow()
	if err != nil {
		appLog.Fatalf("Invalid backtest window: %v", err)
	}
	if startOverride != "" {
		start, err = time.Parse("2006-01-02", startOverride)
		if err != nil {
			appLog.Fatalf("Invalid start date: %v", err)
		}
	}
	if endOverride != "" {
		end, err = time.Parse("2006-01-02", endOverride)
		if err != nil {
			appLog.Fatalf("Invalid end date: %v", err)
		}
	}
	return models.Day(start), models.Day(end)
}

func buildProfiles(cfg *config.Config, appLog *logrus.Logger) map[string]*models.WeightProfile {
	profiles, err := cfg.BuildProfiles()
	if err != nil {
		appLog.Fatalf("Invalid weight profiles: %v", err)
	}
	return profiles
}

func buildParams(
	cfg *config.Config,
	c *corpus.Corpus,
	profiles map[string]*models.WeightProfile,
	competition, profileName string,
	workers int,
	start, end time.Time,
	appLog *logrus.Logger,
) backtest.Params {
	eng, err := engine.New(&cfg.Engine, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create engine: %v", err)
	}
	riskTable, err := risk.NewTable(&cfg.Risk)
	if err != nil {
		appLog.Fatalf("Invalid risk table: %v", err)
	}
	policy, err := selection.NewPolicy(&cfg.Selection, appLog)
	if err != nil {
		appLog.Fatalf("Invalid selection policy: %v", err)
	}
	odds, err := cfg.BuildNominalOdds()
	if err != nil {
		appLog.Fatalf("Invalid odds table: %v", err)
	}

	if workers <= 0 {
		workers = cfg.Backtest.Workers
	}

	params := backtest.Params{
		Corpus:      c,
		Registry:    patterns.Builtin(),
		Engine:      eng,
		Risk:        riskTable,
		Policy:      policy,
		Odds:        odds,
		Competition: competition,
		Start:       start,
		End:         end,
		Workers:     workers,
	}
	if profileName != "" {
		profile, ok := profiles[profileName]
		if !ok {
			appLog.Fatalf("Unknown weight profile %q", profileName)
		}
		params.Profile = profile
	}
	return params
}

// corpusFromCSV loads every season file in a directory. Each row carries its
// own division code, so mixed-league directories work.
func corpusFromCSV(dir string, appLog *logrus.Logger) *corpus.Corpus {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		appLog.Fatalf("Failed to list %s: %v", dir, err)
	}
	if len(files) == 0 {
		appLog.Fatalf("No season files found in %s", dir)
	}
	sort.Strings(files)

	normalizer := service.NewDataNormalizer(appLog)
	validator := service.NewDataValidator(appLog)

	var records []models.MatchRecord
	for _, file := range files {
		rows, err := readSeasonFile(file)
		if err != nil {
			appLog.Fatalf("Failed to read %s: %v", file, err)
		}

		kept := 0
		for _, row := range rows {
			competition, err := normalizer.CompetitionFromDivision(row.Field("Div"))
			if err != nil {
				continue
			}
			record, err := normalizer.MatchRecord(competition, row)
			if err != nil {
				continue
			}
			if problems := validator.ValidateRecord(record); len(problems) > 0 {
				continue
			}
			records = append(records, record)
			kept++
		}
		appLog.WithFields(logrus.Fields{
			"file":    filepath.Base(file),
			"rows":    len(rows),
			"records": kept,
		}).Info("Season file loaded")
	}
	return corpus.New(records)
}

func readSeasonFile(path string) ([]service.SeasonRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return service.ReadSeasonCSV(f)
}

// corpusFromDatabase loads the evaluation period plus enough prior history to
// warm the longest configured window.
func corpusFromDatabase(
	ctx context.Context,
	repos *repository.Repositories,
	profiles map[string]*models.WeightProfile,
	start, end time.Time,
	appLog *logrus.Logger,
) *corpus.Corpus {
	lookback := 30
	for _, profile := range profiles {
		if days := profile.LongestDays(); days > lookback {
			lookback = days
		}
	}

	records, err := repos.Match.GetByDateRange(ctx, start.AddDate(0, 0, -lookback), end)
	if err != nil {
		appLog.Fatalf("Failed to load match records: %v", err)
	}
	return corpus.New(records)
}

func runEvaluation(ctx context.Context, params backtest.Params, appLog *logrus.Logger) *backtest.Result {
	ev, err := backtest.NewEvaluator(params, appLog)
	if err != nil {
		appLog.Fatalf("Failed to create evaluator: %v", err)
	}
	result, err := ev.Run(ctx)
	if err != nil {
		appLog.Fatalf("Evaluation failed: %v", err)
	}
	return result
}

func runSweep(ctx context.Context, params backtest.Params, profiles map[string]*models.WeightProfile, appLog *logrus.Logger) {
	rows, err := backtest.RunSweep(ctx, params, profiles, appLog)
	if err != nil {
		appLog.Fatalf("Profile sweep failed: %v", err)
	}
	fmt.Print(backtest.GenerateSweepReport(rows))
}

func reportDir(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.Backtest.OutputPath
}

func writeReports(result *backtest.Result, dir string, appLog *logrus.Logger) {
	if err := backtest.WriteJSONReport(result, filepath.Join(dir, "result.json")); err != nil {
		appLog.Fatalf("Failed to write JSON report: %v", err)
	}
	if err := backtest.WriteCSVReport(result, filepath.Join(dir, "patterns.csv")); err != nil {
		appLog.Fatalf("Failed to write CSV report: %v", err)
	}
	if err := backtest.WriteEquityCSV(result, filepath.Join(dir, "equity.csv")); err != nil {
		appLog.Fatalf("Failed to write equity curve: %v", err)
	}
	appLog.WithField("dir", dir).Info("Reports written")
}

func runResample(result *backtest.Result, cfg config.ResampleConfig, appLog *logrus.Logger) {
	rs := backtest.Resample(result.Bets, cfg)
	appLog.WithFields(logrus.Fields{
		"iterations":            rs.Iterations,
		"mean_profit":           fmt.Sprintf("%.2f", rs.MeanProfit),
		"std_profit":            fmt.Sprintf("%.2f", rs.StdProfit),
		"p05":                   fmt.Sprintf("%.2f", rs.Quantiles["p05"]),
		"p95":                   fmt.Sprintf("%.2f", rs.Quantiles["p95"]),
		"probability_of_profit": fmt.Sprintf("%.2f", rs.ProbabilityOfProfit),
	}).Info("Bootstrap resample complete")
}

func saveResult(ctx context.Context, repos *repository.Repositories, result *backtest.Result, appLog *logrus.Logger) {
	if repos == nil {
		appLog.Warn("-save requires the database corpus; skipping")
		return
	}
	record, err := result.Record()
	if err != nil {
		appLog.Fatalf("Failed to flatten result: %v", err)
	}
	if err := repos.Evaluation.Save(ctx, record); err != nil {
		appLog.Fatalf("Failed to persist result: %v", err)
	}
	appLog.WithField("run_id", result.RunID).Info("Evaluation result saved")
}
