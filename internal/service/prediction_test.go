package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pattern-edge/internal/config"
	"github.com/yourusername/pattern-edge/internal/engine"
	"github.com/yourusername/pattern-edge/internal/models"
	"github.com/yourusername/pattern-edge/internal/patterns"
	"github.com/yourusername/pattern-edge/internal/risk"
	"github.com/yourusername/pattern-edge/internal/selection"
)

var predDay = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

// predictionStack wires a single-pattern service: home corners over 2.5 at
// threshold 0.60 with the default 0.05 risk penalty, so six recent hits
// yield a 0.95 risk-adjusted confidence.
func predictionStack(t *testing.T, matches *fakeMatchRepo, predictions *fakePredictionRepo) *PredictionService {
	t.Helper()

	registry := patterns.NewRegistry()
	err := registry.Register(models.Pattern{
		Name:     "home_over_2_5_corners",
		Category: models.CategoryCorners,
		Predicate: func(m models.MatchRecord) bool {
			return m.Stat(models.StatHomeCorners) > 2.5
		},
		Threshold:   0.60,
		MinSample7:  1,
		MinSample30: 1,
		Requires:    []string{models.StatHomeCorners},
	})
	require.NoError(t, err)

	eng, err := engine.New(&config.EngineConfig{
		DefaultProfile: "short",
		Profiles: map[string][]config.WindowConfig{
			"short": {{Days: 7, Weight: 0.5}, {Days: 14, Weight: 0.5}},
		},
		Adjustments: config.AdjustmentsConfig{
			TrendThreshold:     0.03,
			TrendBoost:         0.02,
			ConsistencyLow:     0.03,
			ConsistencyHigh:    0.05,
			ConsistencyBoost:   0.01,
			ConsistencyPenalty: 0.02,
			SamplePenalty:      0.05,
		},
	}, discardLogger())
	require.NoError(t, err)

	riskTable, err := risk.NewTable(&config.RiskConfig{DefaultPenalty: 0.05})
	require.NoError(t, err)

	policy, err := selection.NewPolicy(&config.SelectionConfig{
		VarianceRanking: []string{"CARDS", "CORNERS", "GOALS", "RESULT"},
	}, discardLogger())
	require.NoError(t, err)

	svc, err := NewPredictionService(matches, predictions, registry, eng, riskTable, policy, discardLogger())
	require.NoError(t, err)
	return svc
}

// seedCorners stores one completed fixture per day counting back from the
// day before predDay, with the given home corner counts.
func seedCorners(t *testing.T, repo *fakeMatchRepo, corners ...float64) {
	t.Helper()
	for i, count := range corners {
		record := models.NewMatchRecord("serie_a", predDay.AddDate(0, 0, -(i+1)),
			fmt.Sprintf("Home %d", i), fmt.Sprintf("Away %d", i),
			map[string]float64{models.StatHomeCorners: count})
		require.NoError(t, repo.Insert(context.Background(), record))
	}
}

func TestPredictFixturesRecommends(t *testing.T) {
	matches := newFakeMatchRepo()
	seedCorners(t, matches, 6, 7, 5, 4, 8, 6)
	svc := predictionStack(t, matches, newFakePredictionRepo())

	fixture := models.Fixture{Competition: "serie_a", Date: predDay, HomeTeam: "Juventus", AwayTeam: "Inter Milan"}
	run, err := svc.PredictFixtures(context.Background(), []models.Fixture{fixture})
	require.NoError(t, err)

	require.Len(t, run.Predictions, 1)
	assert.Empty(t, run.NoBet)

	prediction := run.Predictions[0]
	assert.NotEqual(t, uuid.Nil, prediction.ID)
	assert.Equal(t, "serie_a", prediction.Competition)
	assert.Equal(t, predDay, prediction.MatchDate)
	assert.Equal(t, "home_over_2_5_corners", prediction.PatternName)
	assert.Equal(t, models.CategoryCorners, prediction.Category)
	assert.InDelta(t, 1.0, prediction.Confidence, 1e-9)
	assert.InDelta(t, 0.95, prediction.RiskAdjusted, 1e-9)
	assert.InDelta(t, 0.35, prediction.Margin, 1e-9)
	assert.False(t, prediction.CreatedAt.IsZero())
}

func TestPredictFixturesNoBetBelowThreshold(t *testing.T) {
	matches := newFakeMatchRepo()
	// Half the recent matches hit, which lands well below the threshold.
	seedCorners(t, matches, 6, 1, 5, 2, 7, 0)
	svc := predictionStack(t, matches, newFakePredictionRepo())

	fixture := models.Fixture{Competition: "serie_a", Date: predDay, HomeTeam: "Juventus", AwayTeam: "Inter Milan"}
	run, err := svc.PredictFixtures(context.Background(), []models.Fixture{fixture})
	require.NoError(t, err)

	assert.Empty(t, run.Predictions)
	require.Len(t, run.NoBet, 1)
	assert.Equal(t, "no pattern above its threshold", run.NoBet[0].Reason)
	assert.Equal(t, fixture.Key(), run.NoBet[0].Fixture.Key())
}

func TestPredictFixturesInsufficientHistory(t *testing.T) {
	svc := predictionStack(t, newFakeMatchRepo(), newFakePredictionRepo())

	fixture := models.Fixture{Competition: "serie_a", Date: predDay, HomeTeam: "Juventus", AwayTeam: "Inter Milan"}
	run, err := svc.PredictFixtures(context.Background(), []models.Fixture{fixture})
	require.NoError(t, err)

	assert.Empty(t, run.Predictions)
	require.Len(t, run.NoBet, 1)
	assert.Equal(t, "insufficient history for every pattern", run.NoBet[0].Reason)
}

func TestPredictFixturesIgnoresSameDayResults(t *testing.T) {
	matches := newFakeMatchRepo()
	seedCorners(t, matches, 6)

	// The fixture under prediction is already settled with a miss. If its
	// own result leaked into the estimate the hit-rate would drop to 0.5
	// and no bet would clear the threshold.
	settled := models.NewMatchRecord("serie_a", predDay, "Juventus", "Inter Milan",
		map[string]float64{models.StatHomeCorners: 0})
	require.NoError(t, matches.Insert(context.Background(), settled))

	svc := predictionStack(t, matches, newFakePredictionRepo())
	run, err := svc.PredictFixtures(context.Background(), []models.Fixture{settled.Fixture()})
	require.NoError(t, err)

	require.Len(t, run.Predictions, 1)
	assert.InDelta(t, 0.95, run.Predictions[0].RiskAdjusted, 1e-9)
}

func TestPredictDate(t *testing.T) {
	matches := newFakeMatchRepo()
	seedCorners(t, matches, 6, 7, 5, 4, 8, 6)

	ctx := context.Background()
	for _, teams := range [][2]string{{"Juventus", "Inter Milan"}, {"Napoli", "AS Roma"}} {
		record := models.NewMatchRecord("serie_a", predDay, teams[0], teams[1],
			map[string]float64{models.StatHomeCorners: 5})
		require.NoError(t, matches.Insert(ctx, record))
	}
	// A competition with no stored history gets no recommendation.
	other := models.NewMatchRecord("premier_league", predDay, "Arsenal", "Chelsea",
		map[string]float64{models.StatHomeCorners: 5})
	require.NoError(t, matches.Insert(ctx, other))

	svc := predictionStack(t, matches, newFakePredictionRepo())

	run, err := svc.PredictDate(ctx, "serie_a", predDay)
	require.NoError(t, err)
	assert.Len(t, run.Predictions, 2)
	assert.Empty(t, run.NoBet)

	run, err = svc.PredictDate(ctx, "", predDay)
	require.NoError(t, err)
	assert.Len(t, run.Predictions, 2)
	require.Len(t, run.NoBet, 1)
	assert.Equal(t, "premier_league", run.NoBet[0].Fixture.Competition)

	run, err = svc.PredictDate(ctx, "serie_a", predDay.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Empty(t, run.Predictions)
	assert.Empty(t, run.NoBet)
}

func TestStorePredictions(t *testing.T) {
	matches := newFakeMatchRepo()
	seedCorners(t, matches, 6, 7, 5, 4, 8, 6)
	predictions := newFakePredictionRepo()
	svc := predictionStack(t, matches, predictions)

	ctx := context.Background()
	fixture := models.Fixture{Competition: "serie_a", Date: predDay, HomeTeam: "Juventus", AwayTeam: "Inter Milan"}
	run, err := svc.PredictFixtures(ctx, []models.Fixture{fixture})
	require.NoError(t, err)

	require.NoError(t, svc.Store(ctx, run))
	assert.Equal(t, 1, predictions.batches)

	stored, err := predictions.GetByFixture(ctx, fixture)
	require.NoError(t, err)
	assert.Equal(t, "home_over_2_5_corners", stored.PatternName)

	// Storing an empty run is a no-op.
	require.NoError(t, svc.Store(ctx, &PredictionRun{}))
	assert.Equal(t, 1, predictions.batches)
}

func TestNewPredictionServiceValidation(t *testing.T) {
	matches := newFakeMatchRepo()
	predictions := newFakePredictionRepo()

	_, err := NewPredictionService(nil, predictions, patterns.NewRegistry(), nil, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewPredictionService(matches, nil, patterns.NewRegistry(), nil, nil, nil, nil)
	assert.Error(t, err)
}
