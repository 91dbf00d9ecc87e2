package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pattern-edge/internal/models"
)

// MatchRepository defines the interface for match record data access
type MatchRepository interface {
	Insert(ctx context.Context, record models.MatchRecord) error
	// InsertBatch inserts records, skipping ones whose fixture already
	// exists, and returns the number actually inserted.
	InsertBatch(ctx context.Context, records []models.MatchRecord) (int, error)
	Exists(ctx context.Context, fixture models.Fixture) (bool, error)
	GetByCompetition(ctx context.Context, competition string, start, end time.Time) ([]models.MatchRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MatchRecord, error)
	CountByCompetition(ctx context.Context) (map[string]int, error)
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	// Upsert writes a prediction, replacing any earlier one for the same
	// fixture so a rerun of the daily sweep refreshes its output.
	Upsert(ctx context.Context, prediction *models.PatternPrediction) error
	UpsertBatch(ctx context.Context, predictions []*models.PatternPrediction) error
	GetByDate(ctx context.Context, date time.Time) ([]*models.PatternPrediction, error)
	GetByFixture(ctx context.Context, fixture models.Fixture) (*models.PatternPrediction, error)
}

// EvaluationRepository defines the interface for evaluation run persistence
type EvaluationRepository interface {
	Save(ctx context.Context, result *models.EvaluationResult) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationResult, error)
	GetLatest(ctx context.Context, limit int) ([]*models.EvaluationResult, error)
	GetByCompetition(ctx context.Context, competition string, limit int) ([]*models.EvaluationResult, error)
}
