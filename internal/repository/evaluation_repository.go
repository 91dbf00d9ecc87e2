package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pattern-edge/internal/database"
	"github.com/yourusername/pattern-edge/internal/models"
)

const errScanEvaluation = "failed to scan evaluation result: %w"

const selectEvaluationColumns = `
	id, competition, profile, start_date, end_date,
	fixtures, bets, wins, unresolved, win_rate,
	profit, roi, max_drawdown, profit_factor, pattern_stats, created_at
`

// PostgresEvaluationRepository implements EvaluationRepository for PostgreSQL
type PostgresEvaluationRepository struct {
	db *database.DB
}

// NewPostgresEvaluationRepository creates a new evaluation repository
func NewPostgresEvaluationRepository(db *database.DB) EvaluationRepository {
	return &PostgresEvaluationRepository{db: db}
}

// Save persists a walk-forward run summary
func (r *PostgresEvaluationRepository) Save(ctx context.Context, result *models.EvaluationResult) error {
	query := `
		INSERT INTO evaluation_results (
			id, competition, profile, start_date, end_date,
			fixtures, bets, wins, unresolved, win_rate,
			profit, roi, max_drawdown, profit_factor, pattern_stats, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		result.ID, result.Competition, result.Profile, result.StartDate, result.EndDate,
		result.Fixtures, result.Bets, result.Wins, result.Unresolved, result.WinRate,
		result.Profit, result.ROI, result.MaxDrawdown, result.ProfitFactor,
		result.PatternStats, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save evaluation result: %w", err)
	}
	return nil
}

// GetByID retrieves an evaluation run by ID
func (r *PostgresEvaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationResult, error) {
	query := `SELECT ` + selectEvaluationColumns + ` FROM evaluation_results WHERE id = $1`

	result, err := scanEvaluation(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return result, err
}

// GetLatest retrieves the most recent evaluation runs
func (r *PostgresEvaluationRepository) GetLatest(ctx context.Context, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT ` + selectEvaluationColumns + `
		FROM evaluation_results
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest evaluation results: %w", err)
	}
	defer rows.Close()

	return collectEvaluations(rows)
}

// GetByCompetition retrieves the most recent runs for one competition
func (r *PostgresEvaluationRepository) GetByCompetition(ctx context.Context, competition string, limit int) ([]*models.EvaluationResult, error) {
	query := `
		SELECT ` + selectEvaluationColumns + `
		FROM evaluation_results
		WHERE competition = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, competition, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation results by competition: %w", err)
	}
	defer rows.Close()

	return collectEvaluations(rows)
}

func collectEvaluations(rows pgx.Rows) ([]*models.EvaluationResult, error) {
	var results []*models.EvaluationResult
	for rows.Next() {
		result, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func scanEvaluation(row pgx.Row) (*models.EvaluationResult, error) {
	result := &models.EvaluationResult{}
	err := row.Scan(
		&result.ID, &result.Competition, &result.Profile, &result.StartDate, &result.EndDate,
		&result.Fixtures, &result.Bets, &result.Wins, &result.Unresolved, &result.WinRate,
		&result.Profit, &result.ROI, &result.MaxDrawdown, &result.ProfitFactor,
		&result.PatternStats, &result.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf(errScanEvaluation, err)
	}
	return result, nil
}
