package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/models"
)

// AuditLogger provides a dedicated audit trail of every prediction, one JSON
// object per line.
type AuditLogger struct {
	*logrus.Entry
	closer io.Closer
}

// NewAuditLogger creates an audit logger appending to path. An empty path
// routes the trail through baseLogger instead of a file.
func NewAuditLogger(baseLogger *logrus.Logger, path string) (*AuditLogger, error) {
	if path == "" {
		return &AuditLogger{Entry: baseLogger.WithField("component", "audit")}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit log directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}

	return newAuditLogger(f, f), nil
}

func newAuditLogger(w io.Writer, closer io.Closer) *AuditLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.InfoLevel)
	return &AuditLogger{
		Entry:  l.WithField("component", "audit"),
		closer: closer,
	}
}

// LogPrediction records the query, the evidence size and the final decision.
func (al *AuditLogger) LogPrediction(p *models.Prediction) {
	al.WithFields(logrus.Fields{
		"prediction_id":        p.ID.String(),
		"home_odds":            p.Query.Home.String(),
		"draw_odds":            p.Query.Draw.String(),
		"away_odds":            p.Query.Away.String(),
		"k":                    p.K,
		"neighbor_count":       p.NeighborCount,
		"source":               string(p.Source),
		"fallback_reason":      p.FallbackReason,
		"best_market":          p.Decision.BestMarket,
		"best_outcome":         p.Decision.BestOutcome,
		"expected_total_goals": p.Decision.ExpectedTotalGoals,
		"confidence":           p.Decision.Confidence,
		"reasoning_summary":    p.Decision.ReasoningSummary,
		"created_at":           p.CreatedAt.Unix(),
	}).Info("Prediction recorded")
}

// Close releases the audit file, if any.
func (al *AuditLogger) Close() error {
	if al.closer == nil {
		return nil
	}
	return al.closer.Close()
}
