package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pattern-edge/internal/database"
	"github.com/yourusername/pattern-edge/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

const upsertPredictionQuery = `
	INSERT INTO predictions (
		id, competition, match_date, home_team, away_team,
		pattern_name, category, confidence, risk_adjusted, threshold, margin, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (competition, match_date, home_team, away_team) DO UPDATE SET
		pattern_name = EXCLUDED.pattern_name,
		category = EXCLUDED.category,
		confidence = EXCLUDED.confidence,
		risk_adjusted = EXCLUDED.risk_adjusted,
		threshold = EXCLUDED.threshold,
		margin = EXCLUDED.margin,
		created_at = EXCLUDED.created_at
`

const selectPredictionColumns = `
	id, competition, match_date, home_team, away_team,
	pattern_name, category, confidence, risk_adjusted, threshold, margin, created_at
`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Upsert writes a prediction, replacing any earlier one for the fixture
func (r *PostgresPredictionRepository) Upsert(ctx context.Context, prediction *models.PatternPrediction) error {
	_, err := r.db.GetPool().Exec(ctx, upsertPredictionQuery, predictionArgs(prediction)...)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction: %w", err)
	}
	return nil
}

// UpsertBatch writes a day's predictions in one round trip
func (r *PostgresPredictionRepository) UpsertBatch(ctx context.Context, predictions []*models.PatternPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, prediction := range predictions {
		batch.Queue(upsertPredictionQuery, predictionArgs(prediction)...)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range predictions {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to batch upsert predictions: %w", err)
		}
	}
	return nil
}

// GetByDate retrieves all predictions for fixtures on a calendar day
func (r *PostgresPredictionRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.PatternPrediction, error) {
	query := `
		SELECT ` + selectPredictionColumns + `
		FROM predictions
		WHERE match_date = $1
		ORDER BY competition ASC, home_team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.Day(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by date: %w", err)
	}
	defer rows.Close()

	var predictions []*models.PatternPrediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, prediction)
	}
	return predictions, rows.Err()
}

// GetByFixture retrieves the prediction stored for one fixture
func (r *PostgresPredictionRepository) GetByFixture(ctx context.Context, fixture models.Fixture) (*models.PatternPrediction, error) {
	query := `
		SELECT ` + selectPredictionColumns + `
		FROM predictions
		WHERE competition = $1 AND match_date = $2 AND home_team = $3 AND away_team = $4
	`

	row := r.db.GetPool().QueryRow(ctx, query,
		fixture.Competition, models.Day(fixture.Date), fixture.HomeTeam, fixture.AwayTeam,
	)
	prediction, err := scanPrediction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return prediction, nil
}

func predictionArgs(p *models.PatternPrediction) []interface{} {
	return []interface{}{
		p.ID, p.Competition, models.Day(p.MatchDate), p.HomeTeam, p.AwayTeam,
		p.PatternName, p.Category, p.Confidence, p.RiskAdjusted, p.Threshold, p.Margin, p.CreatedAt,
	}
}

func scanPrediction(row pgx.Row) (*models.PatternPrediction, error) {
	prediction := &models.PatternPrediction{}
	err := row.Scan(
		&prediction.ID, &prediction.Competition, &prediction.MatchDate,
		&prediction.HomeTeam, &prediction.AwayTeam, &prediction.PatternName,
		&prediction.Category, &prediction.Confidence, &prediction.RiskAdjusted,
		&prediction.Threshold, &prediction.Margin, &prediction.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf(errScanPrediction, err)
	}
	return prediction, nil
}
