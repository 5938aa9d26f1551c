package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/httpclient"
	"github.com/yourusername/odds-oracle/internal/models"
)

const maxDatasetBytes = 256 << 20

// URLSource downloads the table over HTTP. JSON is assumed unless the URL or
// the response content type says CSV.
type URLSource struct {
	httpClient *httpclient.Client
	url        string
	logger     *logrus.Entry
}

// NewURLSource creates a new remote source
func NewURLSource(httpClient *httpclient.Client, url string, logger *logrus.Logger) *URLSource {
	if logger == nil {
		logger = logrus.New()
	}
	return &URLSource{
		httpClient: httpClient,
		url:        url,
		logger:     logger.WithField("component", "dataset"),
	}
}

// Name returns the source description
func (s *URLSource) Name() string {
	return "url:" + s.url
}

// Load downloads and parses the table
func (s *URLSource) Load(ctx context.Context) ([]models.HistoricalMatch, error) {
	resp, err := s.httpClient.Get(ctx, s.url)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNetwork, "download failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(s.Name(), ErrCodeNotFound, "dataset not found", nil)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(s.Name(), ErrCodeServer, fmt.Sprintf("server returned status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(s.Name(), ErrCodeNetwork, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNetwork, "read body", err)
	}

	var matches []models.HistoricalMatch
	if isCSV(s.url, resp.Header.Get("Content-Type")) {
		matches, err = ParseCSV(bytes.NewReader(body))
	} else {
		matches, err = ParseJSON(body)
	}
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "parse dataset", err)
	}

	s.logger.WithFields(logrus.Fields{
		"url":   s.url,
		"rows":  len(matches),
		"bytes": len(body),
	}).Debug("Downloaded historical dataset")

	return matches, nil
}

func isCSV(location, contentType string) bool {
	if strings.HasSuffix(strings.ToLower(strings.SplitN(location, "?", 2)[0]), ".csv") {
		return true
	}
	return strings.HasPrefix(strings.ToLower(contentType), "text/csv")
}
