package database

import (
	"context"
	"fmt"

	"github.com/yourusername/pattern-edge/internal/config"
)

// schema is applied idempotently at startup. The natural key on matches is
// what the ingestion service relies on for duplicate detection.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS matches (
		id UUID PRIMARY KEY,
		competition TEXT NOT NULL,
		match_date DATE NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		stats JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (competition, match_date, home_team, away_team)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_competition_date
		ON matches (competition, match_date)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id UUID PRIMARY KEY,
		competition TEXT NOT NULL,
		match_date DATE NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		pattern_name TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		risk_adjusted DOUBLE PRECISION NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		margin DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (competition, match_date, home_team, away_team)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_match_date
		ON predictions (match_date)`,
	`CREATE TABLE IF NOT EXISTS evaluation_results (
		id UUID PRIMARY KEY,
		competition TEXT NOT NULL,
		profile TEXT NOT NULL,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		fixtures INT NOT NULL,
		bets INT NOT NULL,
		wins INT NOT NULL,
		unresolved INT NOT NULL,
		win_rate DOUBLE PRECISION NOT NULL,
		profit NUMERIC(14,4) NOT NULL,
		roi DOUBLE PRECISION NOT NULL,
		max_drawdown DOUBLE PRECISION NOT NULL,
		profit_factor DOUBLE PRECISION NOT NULL,
		pattern_stats JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_evaluation_results_created_at
		ON evaluation_results (created_at DESC)`,
}

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.ApplySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ApplySchema creates the tables and indexes if they do not exist yet
func (db *DB) ApplySchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
