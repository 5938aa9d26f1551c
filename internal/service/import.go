package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/repository"
)

// ImportService copies a historical dataset into PostgreSQL
type ImportService struct {
	matches   repository.MatchRepository
	logger    *logrus.Entry
	batchSize int
}

// NewImportService creates a new import service
func NewImportService(matches repository.MatchRepository, logger *logrus.Logger, batchSize int) *ImportService {
	if batchSize <= 0 {
		batchSize = 1000
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &ImportService{
		matches:   matches,
		logger:    logger.WithField("component", "import"),
		batchSize: batchSize,
	}
}

// Import loads every row from source and appends it in table order. With
// replace set, existing rows are removed first so the stored order matches
// the source exactly.
func (s *ImportService) Import(ctx context.Context, source dataset.Source, replace bool) (*ImportMetrics, error) {
	m := NewImportMetrics(source.Name())
	defer m.Finish()

	s.logger.WithFields(logrus.Fields{
		"source":  source.Name(),
		"replace": replace,
	}).Info("Starting dataset import")

	rows, err := source.Load(ctx)
	if err != nil {
		m.RecordError()
		return m, fmt.Errorf("failed to load dataset: %w", err)
	}
	m.TotalRows = len(rows)

	if replace {
		if err := s.matches.DeleteAll(ctx); err != nil {
			m.RecordError()
			return m, err
		}
	}

	// Batches are committed one at a time; a failure stops the import so the
	// stored table is always a prefix of the source.
	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))

		if err := s.matches.InsertBatch(ctx, rows[start:end]); err != nil {
			m.RecordError()
			return m, fmt.Errorf("failed to import rows %d-%d: %w", start, end-1, err)
		}
		m.RecordBatch(end - start)
	}

	m.Finish()
	s.logger.WithField("metrics", m.String()).Info("Dataset import complete")
	return m, nil
}
