// Package repository provides PostgreSQL persistence for historical matches
// and predictions.
package repository

import (
	"fmt"

	"github.com/yourusername/odds-oracle/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match      MatchRepository
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:      NewPostgresMatchRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}
