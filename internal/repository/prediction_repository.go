package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/odds-oracle/internal/database"
	"github.com/yourusername/odds-oracle/internal/models"
)

const predictionColumns = `id, home_odds::text, draw_odds::text, away_odds::text, k, neighbor_count,
	source, fallback_reason, decision, created_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a prediction; the decision is stored as JSONB
func (r *PostgresPredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	decision, err := json.Marshal(p.Decision)
	if err != nil {
		return fmt.Errorf("failed to encode decision: %w", err)
	}

	query := `
		INSERT INTO predictions (id, home_odds, draw_odds, away_odds, k, neighbor_count, source, fallback_reason, decision, created_at)
		VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		p.ID, p.Query.Home.String(), p.Query.Draw.String(), p.Query.Away.String(),
		p.K, p.NeighborCount, string(p.Source), p.FallbackReason, decision, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction by its ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := "SELECT " + predictionColumns + " FROM predictions WHERE id = $1"

	p, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// ListRecent retrieves the newest predictions first
func (r *PostgresPredictionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + predictionColumns + " FROM predictions ORDER BY created_at DESC LIMIT $1"

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	var (
		p                models.Prediction
		home, draw, away string
		source           string
		decision         []byte
	)

	err := row.Scan(&p.ID, &home, &draw, &away, &p.K, &p.NeighborCount,
		&source, &p.FallbackReason, &decision, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	if p.Query.Home, err = decimal.NewFromString(home); err != nil {
		return nil, err
	}
	if p.Query.Draw, err = decimal.NewFromString(draw); err != nil {
		return nil, err
	}
	if p.Query.Away, err = decimal.NewFromString(away); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(decision, &p.Decision); err != nil {
		return nil, fmt.Errorf("decode decision: %w", err)
	}
	p.Source = models.DecisionSource(source)

	return &p, nil
}
