// Package dataset loads the historical match table from a URL, a local file or
// Postgres, and keeps the current copy available to concurrent readers.
package dataset

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/odds-oracle/internal/models"
)

// Source loads the full historical table. Row order is significant: the
// similarity filter keeps the first k matches in table order.
type Source interface {
	// Load retrieves every row of the table
	Load(ctx context.Context) ([]models.HistoricalMatch, error)

	// Name returns a human-readable description of the source
	Name() string
}

// Table is an immutable snapshot of the historical dataset
type Table struct {
	Matches  []models.HistoricalMatch
	Source   string
	LoadedAt time.Time
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Matches)
}

// SourceError represents errors from dataset source operations
type SourceError struct {
	Source  string // source name
	Code    string // error code, e.g. "network_error"
	Message string
	Err     error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e SourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeNotFound    = "not_found"
	ErrCodeInvalidData = "invalid_data"
	ErrCodeNetwork     = "network_error"
	ErrCodeServer      = "server_error"
)

// ErrNotLoaded is returned when the store has no table yet
var ErrNotLoaded = errors.New("dataset not loaded")

// NewSourceError creates a new source error
func NewSourceError(source, code, message string, err error) SourceError {
	return SourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StaticSource serves a fixed in-memory table
type StaticSource struct {
	name    string
	matches []models.HistoricalMatch
}

// NewStaticSource creates a source returning matches on every load
func NewStaticSource(name string, matches []models.HistoricalMatch) *StaticSource {
	return &StaticSource{name: name, matches: matches}
}

// Load returns a copy of the fixed table
func (s *StaticSource) Load(ctx context.Context) ([]models.HistoricalMatch, error) {
	out := make([]models.HistoricalMatch, len(s.matches))
	copy(out, s.matches)
	return out, nil
}

// Name returns the source name
func (s *StaticSource) Name() string {
	return s.name
}
