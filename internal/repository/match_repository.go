package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/odds-oracle/internal/database"
	"github.com/yourusername/odds-oracle/internal/models"
)

const insertBatchSize = 1000

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// List retrieves matches ordered by id so the table order of the import is kept
func (r *PostgresMatchRepository) List(ctx context.Context, limit int) ([]models.HistoricalMatch, error) {
	query := `
		SELECT home_odds::text, draw_odds::text, away_odds::text,
		       home_goals, away_goals, home_score, away_score
		FROM historical_matches
		ORDER BY id ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical matches: %w", err)
	}
	defer rows.Close()

	var matches []models.HistoricalMatch
	for rows.Next() {
		var home, draw, away string
		var m models.HistoricalMatch
		if err := rows.Scan(&home, &draw, &away, &m.HomeGoals, &m.AwayGoals, &m.HomeScore, &m.AwayScore); err != nil {
			return nil, fmt.Errorf("failed to scan historical match: %w", err)
		}
		if m.HomeOdds, err = decimal.NewFromString(home); err != nil {
			return nil, fmt.Errorf("failed to parse home odds %q: %w", home, err)
		}
		if m.DrawOdds, err = decimal.NewFromString(draw); err != nil {
			return nil, fmt.Errorf("failed to parse draw odds %q: %w", draw, err)
		}
		if m.AwayOdds, err = decimal.NewFromString(away); err != nil {
			return nil, fmt.Errorf("failed to parse away odds %q: %w", away, err)
		}
		matches = append(matches, m)
	}

	return matches, rows.Err()
}

// InsertBatch appends matches in slice order inside a single transaction
func (r *PostgresMatchRepository) InsertBatch(ctx context.Context, matches []models.HistoricalMatch) error {
	if len(matches) == 0 {
		return nil
	}

	query := `
		INSERT INTO historical_matches (home_odds, draw_odds, away_odds, home_goals, away_goals, home_score, away_score)
		VALUES ($1::numeric, $2::numeric, $3::numeric, $4, $5, $6, $7)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for start := 0; start < len(matches); start += insertBatchSize {
			end := min(start+insertBatchSize, len(matches))

			batch := &pgx.Batch{}
			for _, m := range matches[start:end] {
				batch.Queue(query,
					m.HomeOdds.String(), m.DrawOdds.String(), m.AwayOdds.String(),
					m.HomeGoals, m.AwayGoals, m.HomeScore, m.AwayScore,
				)
			}

			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("failed to batch insert historical matches: %w", err)
			}
		}
		return nil
	})
}

// Count returns the number of stored matches
func (r *PostgresMatchRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM historical_matches").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count historical matches: %w", err)
	}
	return count, nil
}

// DeleteAll removes every stored match and resets the id sequence
func (r *PostgresMatchRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.GetPool().Exec(ctx, "TRUNCATE historical_matches RESTART IDENTITY"); err != nil {
		return fmt.Errorf("failed to truncate historical matches: %w", err)
	}
	return nil
}
