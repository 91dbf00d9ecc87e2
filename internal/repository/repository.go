package repository

import (
	"fmt"

	"github.com/yourusername/pattern-edge/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match      MatchRepository
	Prediction PredictionRepository
	Evaluation EvaluationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:      NewPostgresMatchRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
		Evaluation: NewPostgresEvaluationRepository(db),
	}, nil
}
