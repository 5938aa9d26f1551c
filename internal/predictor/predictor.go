package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/models"
)

// Advisor is the external prediction collaborator. It receives the payload and
// returns free-form text that may or may not encode a DecisionRecord.
type Advisor interface {
	Advise(ctx context.Context, payload *models.PredictionPayload) (string, error)
}

// AdvisorFunc adapts a function to the Advisor interface
type AdvisorFunc func(ctx context.Context, payload *models.PredictionPayload) (string, error)

// Advise calls f
func (f AdvisorFunc) Advise(ctx context.Context, payload *models.PredictionPayload) (string, error) {
	return f(ctx, payload)
}

// Predictor runs filter, advisor call and validation for one query at a time.
// It holds no state between calls.
type Predictor struct {
	advisor Advisor
	logger  *logrus.Entry
}

// New creates a predictor. A nil advisor makes every decision a fallback.
func New(advisor Advisor, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
	}
	return &Predictor{
		advisor: advisor,
		logger:  logger.WithField("component", "predictor"),
	}
}

// Predict produces a decision for query over table. k caps the neighbor set;
// zero selects DefaultK and a negative value is rejected. The advisor is called
// at most once and its failures never surface as errors.
func (p *Predictor) Predict(ctx context.Context, table []models.HistoricalMatch, query models.QueryOdds, k int) (*models.Prediction, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: neighbor cap must not be negative, got %d", models.ErrInvalidInput, k)
	}
	if k == 0 {
		k = DefaultK
	}
	if _, err := models.NewQueryOdds(query.Home, query.Draw, query.Away); err != nil {
		return nil, err
	}

	neighbors := FindSimilar(table, query, k)
	p.logger.WithFields(logrus.Fields{
		"query":      query.String(),
		"table_rows": len(table),
		"neighbors":  len(neighbors),
		"k":          k,
	}).Debug("Similarity filter completed")

	prediction := &models.Prediction{
		ID:            uuid.New(),
		Query:         query,
		K:             k,
		NeighborCount: len(neighbors),
		CreatedAt:     time.Now().UTC(),
	}

	decision, reason := p.decide(ctx, neighbors, query)
	prediction.Decision = decision
	if reason == "" {
		prediction.Source = models.SourceModel
	} else {
		prediction.Source = models.SourceFallback
		prediction.FallbackReason = reason
		p.logger.WithFields(logrus.Fields{
			"reason":    reason,
			"neighbors": len(neighbors),
		}).Info("Using fallback decision")
	}

	return prediction, nil
}

func (p *Predictor) decide(ctx context.Context, neighbors NeighborSet, query models.QueryOdds) (models.DecisionRecord, string) {
	if len(neighbors) == 0 {
		return Fallback(neighbors), ReasonNoNeighbors
	}
	if p.advisor == nil {
		return Fallback(neighbors), ReasonAdvisorDisabled
	}

	raw, err := p.advisor.Advise(ctx, BuildPayload(neighbors, query))
	if err != nil {
		p.logger.WithError(err).Warn("Advisor call failed")
		return Fallback(neighbors), ReasonAdvisorError
	}

	return ResolveDecision(raw, neighbors)
}
