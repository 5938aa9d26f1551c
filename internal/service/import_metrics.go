package service

import (
	"fmt"
	"sync"
	"time"
)

// ImportMetrics tracks statistics about one dataset import
type ImportMetrics struct {
	mu           sync.RWMutex
	Source       string
	StartTime    time.Time
	Duration     time.Duration
	TotalRows    int
	InsertedRows int
	Batches      int
	Errors       int
}

// NewImportMetrics creates a new metrics tracker
func NewImportMetrics(source string) *ImportMetrics {
	return &ImportMetrics{
		Source:    source,
		StartTime: time.Now(),
	}
}

// RecordBatch records a committed batch of rows
func (m *ImportMetrics) RecordBatch(rows int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches++
	m.InsertedRows += rows
}

// RecordError increments error count
func (m *ImportMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// Finish stamps the import duration
func (m *ImportMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// String returns a formatted string representation of metrics
func (m *ImportMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"ImportMetrics{Source=%s, Total=%d, Inserted=%d, Batches=%d, Errors=%d, Duration=%v}",
		m.Source,
		m.TotalRows,
		m.InsertedRows,
		m.Batches,
		m.Errors,
		m.Duration,
	)
}
