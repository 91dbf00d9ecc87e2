package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pattern-edge/internal/engine"
	"github.com/yourusername/pattern-edge/internal/metrics"
	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/patterns"
	"github.com/yourusername/pattern-edge/internal/repository"
	"github.com/yourusername/pattern-edge/internal/risk"
	"github.com/yourusername/pattern-edge/internal/selection"
)

// PredictionService scores upcoming fixtures: it loads each competition's
// history from the matches table, runs the ensemble for every registered
// pattern and selects at most one recommendation per fixture.
type PredictionService struct {
	matches     repository.MatchRepository
	predictions repository.PredictionRepository
	registry    *patterns.Registry
	engine      *engine.Engine
	risk        *risk.Table
	policy      *selection.Policy
	logger      *logrus.Logger
}

// NewPredictionService validates the wiring.
func NewPredictionService(
	matches repository.MatchRepository,
	predictions repository.PredictionRepository,
	registry *patterns.Registry,
	eng *engine.Engine,
	riskTable *risk.Table,
	policy *selection.Policy,
	logger *logrus.Logger,
) (*PredictionService, error) {
	if matches == nil {
		return nil, fmt.Errorf("match repository is required")
	}
	if predictions == nil {
		return nil, fmt.Errorf("prediction repository is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("pattern registry is required")
	}
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if riskTable == nil {
		return nil, fmt.Errorf("risk table is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("selection policy is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &PredictionService{
		matches:     matches,
		predictions: predictions,
		registry:    registry,
		engine:      eng,
		risk:        riskTable,
		policy:      policy,
		logger:      logger,
	}, nil
}

// SkippedFixture is a fixture the run produced no recommendation for.
type SkippedFixture struct {
	Fixture models.Fixture
	Reason  string
}

// PredictionRun is the outcome of scoring a set of fixtures.
type PredictionRun struct {
	Predictions []*models.PatternPrediction
	NoBet       []SkippedFixture
	Elapsed     time.Duration
}

// PredictFixtures scores the given fixtures. Fixture dates are treated as
// UTC calendar days; confidence for each (competition, day) group is
// computed once from history strictly before that day, so a fixture that
// has already been played never sees its own result.
func (s *PredictionService) PredictFixtures(ctx context.Context, fixtures []models.Fixture) (*PredictionRun, error) {
	started := time.Now()
	run := &PredictionRun{}

	for _, group := range groupFixtures(fixtures) {
		candidates, err := s.candidates(ctx, group.competition, group.day)
		if err != nil {
			metrics.RecordPredictionRun("failure")
			return nil, err
		}

		for _, fixture := range group.fixtures {
			rec := s.policy.Select(fixture, candidates)
			if rec == nil {
				run.NoBet = append(run.NoBet, SkippedFixture{
					Fixture: fixture,
					Reason:  noBetReason(len(candidates)),
				})
				continue
			}
			run.Predictions = append(run.Predictions, models.NewPatternPrediction(*rec))
		}
	}

	run.Elapsed = time.Since(started)
	metrics.RecordPredictionRun("success")
	s.logger.WithFields(logrus.Fields{
		"fixtures":        len(fixtures),
		"recommendations": len(run.Predictions),
		"no_bet":          len(run.NoBet),
		"elapsed":         run.Elapsed.String(),
	}).Info("Prediction run complete")
	return run, nil
}

// PredictDate scores the fixtures recorded for one calendar day. After the
// morning refresh the current matchday is already in the matches table, so
// the daily sweep predicts it from strictly prior history. An empty
// competition means every competition with fixtures that day.
func (s *PredictionService) PredictDate(ctx context.Context, competition string, day time.Time) (*PredictionRun, error) {
	day = models.Day(day)

	var (
		records []models.MatchRecord
		err     error
	)
	if competition != "" {
		records, err = s.matches.GetByCompetition(ctx, competition, day, day)
	} else {
		records, err = s.matches.GetByDateRange(ctx, day, day)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures on %s: %w", day.Format("2006-01-02"), err)
	}
	if len(records) == 0 {
		s.logger.WithFields(logrus.Fields{
			"date":        day.Format("2006-01-02"),
			"competition": competition,
		}).Info("No fixtures to predict")
		return &PredictionRun{}, nil
	}

	fixtures := make([]models.Fixture, len(records))
	for i, record := range records {
		fixtures[i] = record.Fixture()
	}
	return s.PredictFixtures(ctx, fixtures)
}

// Store upserts the run's recommendations, replacing any earlier prediction
// for the same fixture so a rerun refreshes rather than duplicates.
func (s *PredictionService) Store(ctx context.Context, run *PredictionRun) error {
	if run == nil || len(run.Predictions) == 0 {
		return nil
	}
	if err := s.predictions.UpsertBatch(ctx, run.Predictions); err != nil {
		return fmt.Errorf("failed to store predictions: %w", err)
	}
	s.logger.WithField("count", len(run.Predictions)).Info("Stored predictions")
	return nil
}

// candidates estimates every registered pattern once for the day and
// applies the risk penalties. Patterns without history are left out.
func (s *PredictionService) candidates(ctx context.Context, competition string, day time.Time) ([]selection.Candidate, error) {
	history, err := s.history(ctx, competition, day)
	if err != nil {
		return nil, err
	}

	candidates := make([]selection.Candidate, 0, s.registry.Len())
	for _, pattern := range s.registry.List() {
		estimate, err := s.engine.Estimate(pattern, day, history)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientHistory) {
				continue
			}
			return nil, fmt.Errorf("estimate %s on %s: %w", pattern.Name, day.Format("2006-01-02"), err)
		}
		candidates = append(candidates, selection.Candidate{
			Bet:      s.risk.Adjust(pattern, estimate),
			Estimate: estimate,
		})
	}
	return candidates, nil
}

// history loads the competition's records strictly before the day, far
// enough back to cover the profile's longest window. The sample-size
// penalty counts the last 30 days regardless of profile, so the lookback
// never shrinks below that.
func (s *PredictionService) history(ctx context.Context, competition string, day time.Time) ([]models.MatchRecord, error) {
	lookback := s.engine.ProfileFor(competition).LongestDays()
	if lookback < 30 {
		lookback = 30
	}

	from := day.AddDate(0, 0, -lookback)
	to := day.AddDate(0, 0, -1)
	history, err := s.matches.GetByCompetition(ctx, competition, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s history before %s: %w",
			competition, day.Format("2006-01-02"), err)
	}
	return history, nil
}

type fixtureGroup struct {
	competition string
	day         time.Time
	fixtures    []models.Fixture
}

// groupFixtures buckets fixtures by (competition, calendar day) in a
// deterministic order so candidate confidence is computed once per bucket.
func groupFixtures(fixtures []models.Fixture) []fixtureGroup {
	ordered := make([]models.Fixture, len(fixtures))
	copy(ordered, fixtures)
	for i := range ordered {
		ordered[i].Date = models.Day(ordered[i].Date)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Competition != b.Competition {
			return a.Competition < b.Competition
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.HomeTeam != b.HomeTeam {
			return a.HomeTeam < b.HomeTeam
		}
		return a.AwayTeam < b.AwayTeam
	})

	var groups []fixtureGroup
	for _, fixture := range ordered {
		n := len(groups)
		if n == 0 || groups[n-1].competition != fixture.Competition || !groups[n-1].day.Equal(fixture.Date) {
			groups = append(groups, fixtureGroup{competition: fixture.Competition, day: fixture.Date})
			n++
		}
		groups[n-1].fixtures = append(groups[n-1].fixtures, fixture)
	}
	return groups
}

func noBetReason(candidates int) string {
	if candidates == 0 {
		return "insufficient history for every pattern"
	}
	return "no pattern above its threshold"
}
