package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/odds-oracle/internal/models"
)

// MatchRepository defines the interface for historical match data access
type MatchRepository interface {
	// List returns stored matches in insertion order; limit <= 0 means all
	List(ctx context.Context, limit int) ([]models.HistoricalMatch, error)
	InsertBatch(ctx context.Context, matches []models.HistoricalMatch) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

// PredictionRepository defines the interface for prediction data access
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Prediction, error)
}
