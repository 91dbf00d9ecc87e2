// Package scheduler runs the recurring background jobs: the season refresh
// that keeps the match archive current and the daily prediction sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/service"
)

// Job names as they appear in logs.
const (
	JobSeasonRefresh    = "season_refresh"
	JobDailyPredictions = "daily_predictions"
)

const (
	seasonRefreshTimeout = 1 * time.Hour
	predictionTimeout    = 10 * time.Minute
)

// Scheduler wraps a UTC cron runner around the ingestion and prediction
// services. Jobs are registered before Start and cannot change while the
// scheduler is running.
type Scheduler struct {
	cron            *cron.Cron
	ingestion       *service.IngestionService
	prediction      *service.PredictionService
	logger          *logrus.Logger
	mu              sync.RWMutex
	running         bool
	jobs            map[string]cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler with no jobs registered.
func NewScheduler(ingestion *service.IngestionService, prediction *service.PredictionService, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		ingestion:       ingestion,
		prediction:      prediction,
		logger:          logger,
		jobs:            make(map[string]cron.EntryID),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleSeasonRefresh registers the job that re-downloads the configured
// seasons. Already-stored fixtures are skipped by the ingestion service, so
// each run only adds the matchdays played since the last one.
func (s *Scheduler) ScheduleSeasonRefresh(spec string, competitions, seasons []string) error {
	if s.ingestion == nil {
		return fmt.Errorf("ingestion service is required for %s", JobSeasonRefresh)
	}
	return s.addJob(JobSeasonRefresh, spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), seasonRefreshTimeout)
		defer cancel()

		s.logger.WithField("job", JobSeasonRefresh).Info("Starting scheduled season refresh")
		report, err := s.ingestion.IngestSeasons(ctx, competitions, seasons)
		if err != nil {
			s.logger.WithError(err).WithField("job", JobSeasonRefresh).Error("Season refresh aborted")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job":      JobSeasonRefresh,
			"rows":     report.Rows,
			"inserted": report.Inserted,
			"skipped":  report.SkippedTotal(),
			"errors":   report.Errors,
		}).Info("Scheduled season refresh complete")
	})
}

// SchedulePredictionSweep registers the job that predicts the current UTC
// day's fixtures across every competition and stores the recommendations.
// It runs after the season refresh has written the day's fixtures.
func (s *Scheduler) SchedulePredictionSweep(spec string) error {
	if s.prediction == nil {
		return fmt.Errorf("prediction service is required for %s", JobDailyPredictions)
	}
	return s.addJob(JobDailyPredictions, spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), predictionTimeout)
		defer cancel()

		day := models.Day(time.Now().UTC())
		s.logger.WithFields(logrus.Fields{
			"job":  JobDailyPredictions,
			"date": day.Format("2006-01-02"),
		}).Info("Starting scheduled prediction sweep")

		run, err := s.prediction.PredictDate(ctx, "", day)
		if err != nil {
			s.logger.WithError(err).WithField("job", JobDailyPredictions).Error("Prediction sweep failed")
			return
		}
		if err := s.prediction.Store(ctx, run); err != nil {
			s.logger.WithError(err).WithField("job", JobDailyPredictions).Error("Failed to store sweep predictions")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"job":             JobDailyPredictions,
			"date":            day.Format("2006-01-02"),
			"recommendations": len(run.Predictions),
			"no_bet":          len(run.NoBet),
		}).Info("Scheduled prediction sweep complete")
	})
}

func (s *Scheduler) addJob(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("cannot schedule %s while the scheduler is running", name)
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s is already scheduled", name)
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to schedule %s with %q: %w", name, spec, err)
	}
	s.jobs[name] = entryID
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"schedule": spec,
	}).Info("Job scheduled")
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.running = true
	s.logger.WithField("jobs", len(s.jobs)).Info("Scheduler started")
	return nil
}

// Stop stops scheduling and waits for in-flight jobs, up to the graceful
// timeout.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs did not finish within %s", s.gracefulTimeout)
	}
}

// IsRunning reports whether the scheduler has been started.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRun returns the earliest upcoming run across all jobs, or the zero
// time when nothing is scheduled.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return time.Time{}
	}

	next := time.Time{}
	for _, entryID := range s.jobs {
		entry := s.cron.Entry(entryID)
		if !entry.Valid() {
			continue
		}
		if next.IsZero() || entry.Next.Before(next) {
			next = entry.Next
		}
	}
	return next
}
