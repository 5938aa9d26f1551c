package dataset

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/models"
)

// Info summarises the currently loaded table
type Info struct {
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
	Loaded   bool      `json:"loaded"`
}

// Store holds the current table. Refresh swaps in a new snapshot; readers
// always see a complete table.
type Store struct {
	source Source
	logger *logrus.Entry

	mu    sync.RWMutex
	table *Table
}

// NewStore creates a store backed by source. Nothing is loaded until Refresh.
func NewStore(source Source, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
	}
	return &Store{
		source: source,
		logger: logger.WithField("component", "dataset"),
	}
}

// Refresh loads the table from the source. On failure the previous snapshot
// stays in place.
func (s *Store) Refresh(ctx context.Context) (*Table, error) {
	start := time.Now()
	matches, err := s.source.Load(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("source", s.source.Name()).Error("Failed to load historical dataset")
		return nil, err
	}

	table := &Table{
		Matches:  matches,
		Source:   s.source.Name(),
		LoadedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.table = table
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"source":   table.Source,
		"rows":     len(matches),
		"duration": time.Since(start),
	}).Debug("Historical dataset swapped")

	return table, nil
}

// Table returns the current snapshot or ErrNotLoaded
func (s *Store) Table() (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return nil, ErrNotLoaded
	}
	return s.table, nil
}

// Matches returns the rows of the current snapshot
func (s *Store) Matches() ([]models.HistoricalMatch, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	return table.Matches, nil
}

// Info describes the current snapshot
func (s *Store) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.table == nil {
		return Info{Source: s.source.Name()}
	}
	return Info{
		Source:   s.table.Source,
		Rows:     len(s.table.Matches),
		LoadedAt: s.table.LoadedAt,
		Loaded:   true,
	}
}
