package dataset

import (
	"context"

	"github.com/yourusername/odds-oracle/internal/models"
)

// MatchLister is the subset of the match repository the Postgres source needs
type MatchLister interface {
	List(ctx context.Context, limit int) ([]models.HistoricalMatch, error)
}

// PostgresSource reads the table from the historical_matches table in
// insertion order
type PostgresSource struct {
	repo MatchLister
}

// NewPostgresSource creates a new database-backed source
func NewPostgresSource(repo MatchLister) *PostgresSource {
	return &PostgresSource{repo: repo}
}

// Name returns the source description
func (s *PostgresSource) Name() string {
	return "postgres:historical_matches"
}

// Load reads every stored row
func (s *PostgresSource) Load(ctx context.Context) ([]models.HistoricalMatch, error) {
	matches, err := s.repo.List(ctx, 0)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeServer, "query historical matches", err)
	}
	return matches, nil
}
