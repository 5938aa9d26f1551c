package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/config"
	"github.com/yourusername/odds-oracle/internal/httpclient"
)

// SourceType represents the type of dataset source
type SourceType string

const (
	// URLSourceType downloads the table over HTTP
	URLSourceType SourceType = "url"
	// FileSourceType reads a local JSON or CSV file
	FileSourceType SourceType = "file"
	// PostgresSourceType reads the historical_matches table
	PostgresSourceType SourceType = "postgres"
)

// NewSource creates a Source based on configuration. lister is only needed
// for the postgres type.
func NewSource(cfg config.DatasetConfig, lister MatchLister, logger *logrus.Logger) (Source, error) {
	switch SourceType(cfg.Source) {
	case URLSourceType:
		if cfg.Location == "" {
			return nil, fmt.Errorf("dataset url is required")
		}
		httpCfg := httpclient.DefaultConfig()
		if cfg.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		return NewURLSource(httpclient.New(httpCfg, logger), cfg.Location, logger), nil

	case FileSourceType:
		if cfg.Location == "" {
			return nil, fmt.Errorf("dataset file path is required")
		}
		return NewFileSource(cfg.Location), nil

	case PostgresSourceType:
		if lister == nil {
			return nil, fmt.Errorf("postgres dataset source requires a database connection")
		}
		return NewPostgresSource(lister), nil

	default:
		return nil, fmt.Errorf("unknown dataset source: %s", cfg.Source)
	}
}

// FromLocation picks a file or URL source from a location string
func FromLocation(location string, logger *logrus.Logger) Source {
	if isRemote(location) {
		return NewURLSource(httpclient.New(httpclient.DefaultConfig(), logger), location, logger)
	}
	return NewFileSource(location)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
