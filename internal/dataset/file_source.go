package dataset

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/yourusername/odds-oracle/internal/models"
)

// FileSource reads the table from a local JSON or CSV file
type FileSource struct {
	path string
}

// NewFileSource creates a new file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source description
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) ([]models.HistoricalMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewSourceError(s.Name(), ErrCodeNotFound, "file does not exist", err)
		}
		return nil, NewSourceError(s.Name(), ErrCodeNetwork, "read file", err)
	}

	var matches []models.HistoricalMatch
	if isCSV(s.path, "") {
		matches, err = ParseCSV(bytes.NewReader(data))
	} else {
		matches, err = ParseJSON(data)
	}
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "parse dataset", err)
	}
	return matches, nil
}
