package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pattern-edge/internal/database"
	"github.com/yourusername/pattern-edge/internal/models"
)

const errScanMatch = "failed to scan match: %w"

const insertMatchQuery = `
	INSERT INTO matches (id, competition, match_date, home_team, away_team, stats)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (competition, match_date, home_team, away_team) DO NOTHING
`

const selectMatchColumns = "competition, match_date, home_team, away_team, stats"

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Insert inserts a single match record
func (r *PostgresMatchRepository) Insert(ctx context.Context, record models.MatchRecord) error {
	tag, err := r.db.GetPool().Exec(ctx, insertMatchQuery,
		uuid.New(), record.Competition, record.Date, record.HomeTeam, record.AwayTeam, record.Stats,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrDuplicateKey
	}
	return nil
}

// InsertBatch inserts records in one round trip, counting how many were new
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, records []models.MatchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(insertMatchQuery,
			uuid.New(), record.Competition, record.Date, record.HomeTeam, record.AwayTeam, record.Stats,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to batch insert matches: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// Exists reports whether a record for the fixture is already stored
func (r *PostgresMatchRepository) Exists(ctx context.Context, fixture models.Fixture) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM matches
			WHERE competition = $1 AND match_date = $2 AND home_team = $3 AND away_team = $4
		)
	`

	var exists bool
	err := r.db.GetPool().QueryRow(ctx, query,
		fixture.Competition, models.Day(fixture.Date), fixture.HomeTeam, fixture.AwayTeam,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check match existence: %w", err)
	}
	return exists, nil
}

// GetByCompetition retrieves a competition's records within a date range
func (r *PostgresMatchRepository) GetByCompetition(ctx context.Context, competition string, start, end time.Time) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + selectMatchColumns + `
		FROM matches
		WHERE competition = $1 AND match_date >= $2 AND match_date <= $3
		ORDER BY match_date ASC, home_team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, competition, models.Day(start), models.Day(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by competition: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// GetByDateRange retrieves all records within a date range
func (r *PostgresMatchRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]models.MatchRecord, error) {
	query := `
		SELECT ` + selectMatchColumns + `
		FROM matches
		WHERE match_date >= $1 AND match_date <= $2
		ORDER BY match_date ASC, competition ASC, home_team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, models.Day(start), models.Day(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by date range: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// CountByCompetition returns stored record counts keyed by competition
func (r *PostgresMatchRepository) CountByCompetition(ctx context.Context) (map[string]int, error) {
	query := `SELECT competition, COUNT(*) FROM matches GROUP BY competition`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var competition string
		var count int
		if err := rows.Scan(&competition, &count); err != nil {
			return nil, fmt.Errorf("failed to scan match count: %w", err)
		}
		counts[competition] = count
	}
	return counts, rows.Err()
}

func scanMatches(rows pgx.Rows) ([]models.MatchRecord, error) {
	var records []models.MatchRecord
	for rows.Next() {
		var record models.MatchRecord
		err := rows.Scan(
			&record.Competition, &record.Date, &record.HomeTeam, &record.AwayTeam, &record.Stats,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		record.Date = models.Day(record.Date)
		records = append(records, record)
	}
	return records, rows.Err()
}
