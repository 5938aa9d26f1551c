package logger

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/models"
)

// PredictionLogger provides dedicated logging for prediction requests.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPrediction logs a completed prediction.
func (pl *PredictionLogger) LogPrediction(p *models.Prediction, duration time.Duration) {
	fields := logrus.Fields{
		"prediction_id":  p.ID.String(),
		"query":          p.Query.String(),
		"k":              p.K,
		"neighbor_count": p.NeighborCount,
		"source":         string(p.Source),
		"best_market":    p.Decision.BestMarket,
		"best_outcome":   p.Decision.Outcome(),
		"confidence":     p.Decision.Confidence,
		"duration_ms":    duration.Milliseconds(),
	}
	if p.FallbackReason != "" {
		fields["fallback_reason"] = p.FallbackReason
	}
	pl.WithFields(fields).Info("Prediction completed")
}

// LogDatasetRefresh logs a dataset load.
func (pl *PredictionLogger) LogDatasetRefresh(source string, rows int, duration time.Duration) {
	pl.WithFields(logrus.Fields{
		"source":      source,
		"rows":        rows,
		"duration_ms": duration.Milliseconds(),
	}).Info("Historical dataset loaded")
}

// LogAdvisorCall logs a chat-completions round trip.
func (pl *PredictionLogger) LogAdvisorCall(model string, cacheHit bool, latency time.Duration, err error) {
	entry := pl.WithFields(logrus.Fields{
		"model":      model,
		"cache_hit":  cacheHit,
		"latency_ms": latency.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("Advisor call failed")
		return
	}
	entry.Debug("Advisor call completed")
}
