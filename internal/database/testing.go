package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDatabaseURLEnv names the variable holding the integration test database URL
const TestDatabaseURLEnv = "ODDS_ORACLE_TEST_DATABASE_URL"

// SetupTestDB connects to the integration database, applies the schema and
// empties both tables. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv(TestDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set; skipping database test", TestDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewDBFromURL(ctx, url)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	if _, err := db.pool.Exec(ctx, "TRUNCATE historical_matches, predictions RESTART IDENTITY"); err != nil {
		db.Close()
		t.Fatalf("failed to truncate test tables: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}
