package database

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/pattern-edge/internal/config"
)

// SetupTestDB creates a test database connection, applies the schema and
// verifies connectivity. Callers are expected to skip when the test database
// is unreachable.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.Load("../../config/config.yaml.test")
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if err := db.ApplySchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

// TruncateAll clears every table the schema defines, for test isolation
func TruncateAll(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, table := range []string{"matches", "predictions", "evaluation_results"} {
		if _, err := db.pool.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}
