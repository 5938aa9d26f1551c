package database

import (
	"context"
	"fmt"

	"github.com/yourusername/odds-oracle/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS historical_matches (
	id          BIGSERIAL PRIMARY KEY,
	home_odds   NUMERIC NOT NULL,
	draw_odds   NUMERIC NOT NULL,
	away_odds   NUMERIC NOT NULL,
	home_goals  DOUBLE PRECISION NOT NULL,
	away_goals  DOUBLE PRECISION NOT NULL,
	home_score  INTEGER NOT NULL CHECK (home_score >= 0),
	away_score  INTEGER NOT NULL CHECK (away_score >= 0),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_historical_matches_odds
	ON historical_matches (home_odds, draw_odds, away_odds);

CREATE TABLE IF NOT EXISTS predictions (
	id               UUID PRIMARY KEY,
	home_odds        NUMERIC NOT NULL,
	draw_odds        NUMERIC NOT NULL,
	away_odds        NUMERIC NOT NULL,
	k                INTEGER NOT NULL,
	neighbor_count   INTEGER NOT NULL,
	source           TEXT NOT NULL,
	fallback_reason  TEXT NOT NULL DEFAULT '',
	decision         JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created_at
	ON predictions (created_at DESC);
`

// Initialize creates a database connection pool and makes sure the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the tables and indexes if they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
