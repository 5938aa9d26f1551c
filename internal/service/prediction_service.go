// Package service wires the dataset, the predictor and persistence into the
// operations exposed by the CLI and the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/logger"
	"github.com/yourusername/odds-oracle/internal/metrics"
	"github.com/yourusername/odds-oracle/internal/models"
	"github.com/yourusername/odds-oracle/internal/predictor"
	"github.com/yourusername/odds-oracle/internal/repository"
)

// ErrPersistenceDisabled is returned by lookups when no repository is configured
var ErrPersistenceDisabled = errors.New("prediction persistence is not configured")

// Publisher receives every new prediction, e.g. the websocket feed
type Publisher interface {
	Publish(p *models.Prediction)
}

// cachedAdvisor is implemented by advisors that can report cache hits
type cachedAdvisor interface {
	AdviseCached(ctx context.Context, payload *models.PredictionPayload) (string, bool, error)
}

// Options holds the collaborators of a PredictionService. Store is required;
// the rest are optional.
type Options struct {
	Store        *dataset.Store
	Advisor      predictor.Advisor
	AdvisorModel string
	Predictions  repository.PredictionRepository
	Audit        *logger.AuditLogger
	Publisher    Publisher
	DefaultK     int
	Logger       *logrus.Logger
}

// PredictionService serves predictions over the current dataset snapshot
type PredictionService struct {
	store       *dataset.Store
	predictor   *predictor.Predictor
	predictions repository.PredictionRepository
	audit       *logger.AuditLogger
	publisher   Publisher
	defaultK    int
	log         *logger.PredictionLogger
}

// NewPredictionService creates a new prediction service
func NewPredictionService(opts Options) (*PredictionService, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("dataset store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.DefaultK <= 0 {
		opts.DefaultK = predictor.DefaultK
	}

	log := logger.NewPredictionLogger(opts.Logger)

	var advisor predictor.Advisor
	if opts.Advisor != nil {
		advisor = &loggingAdvisor{next: opts.Advisor, model: opts.AdvisorModel, log: log}
	}

	return &PredictionService{
		store:       opts.Store,
		predictor:   predictor.New(advisor, opts.Logger),
		predictions: opts.Predictions,
		audit:       opts.Audit,
		publisher:   opts.Publisher,
		defaultK:    opts.DefaultK,
		log:         log,
	}, nil
}

// Predict produces, records and publishes a decision for query. k of zero
// selects the configured default.
func (s *PredictionService) Predict(ctx context.Context, query models.QueryOdds, k int) (*models.Prediction, error) {
	start := time.Now()

	matches, err := s.store.Matches()
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}

	if k == 0 {
		k = s.defaultK
	}

	p, err := s.predictor.Predict(ctx, matches, query, k)
	if err != nil {
		metrics.RecordPredictionError()
		return nil, err
	}

	duration := time.Since(start)
	metrics.RecordPrediction(string(p.Source), p.FallbackReason, p.NeighborCount, p.Decision.Confidence, duration.Seconds())
	s.log.LogPrediction(p, duration)
	if s.audit != nil {
		s.audit.LogPrediction(p)
	}

	// A decision already made is returned even if it cannot be stored.
	if s.predictions != nil {
		if err := s.predictions.Create(ctx, p); err != nil {
			s.log.WithError(err).WithField("prediction_id", p.ID.String()).Error("Failed to persist prediction")
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(p)
	}

	return p, nil
}

// Neighbors returns the similar rows for query without consulting the advisor
func (s *PredictionService) Neighbors(query models.QueryOdds, k int) (predictor.NeighborSet, error) {
	if k < 0 {
		return nil, fmt.Errorf("%w: neighbor cap must not be negative, got %d", models.ErrInvalidInput, k)
	}
	if k == 0 {
		k = s.defaultK
	}
	if _, err := models.NewQueryOdds(query.Home, query.Draw, query.Away); err != nil {
		return nil, err
	}

	matches, err := s.store.Matches()
	if err != nil {
		return nil, err
	}
	return predictor.FindSimilar(matches, query, k), nil
}

// GetPrediction looks up a stored prediction
func (s *PredictionService) GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	if s.predictions == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.predictions.GetByID(ctx, id)
}

// ListPredictions returns the most recent stored predictions
func (s *PredictionService) ListPredictions(ctx context.Context, limit int) ([]*models.Prediction, error) {
	if s.predictions == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.predictions.ListRecent(ctx, limit)
}

// DatasetInfo describes the loaded dataset
func (s *PredictionService) DatasetInfo() dataset.Info {
	return s.store.Info()
}

// RefreshDataset reloads the dataset from its source. On failure the
// previous snapshot keeps serving.
func (s *PredictionService) RefreshDataset(ctx context.Context) (dataset.Info, error) {
	start := time.Now()
	table, err := s.store.Refresh(ctx)
	duration := time.Since(start)

	if err != nil {
		metrics.RecordDatasetRefresh(0, duration.Seconds(), err)
		return s.store.Info(), err
	}

	metrics.RecordDatasetRefresh(table.Len(), duration.Seconds(), nil)
	s.log.LogDatasetRefresh(table.Source, table.Len(), duration)
	return s.store.Info(), nil
}

// CheckDataset reports an error until a dataset has been loaded
func (s *PredictionService) CheckDataset(_ context.Context) error {
	_, err := s.store.Table()
	return err
}

// loggingAdvisor times every advisor round trip
type loggingAdvisor struct {
	next  predictor.Advisor
	model string
	log   *logger.PredictionLogger
}

func (a *loggingAdvisor) Advise(ctx context.Context, payload *models.PredictionPayload) (string, error) {
	start := time.Now()

	var (
		answer string
		hit    bool
		err    error
	)
	if cached, ok := a.next.(cachedAdvisor); ok {
		answer, hit, err = cached.AdviseCached(ctx, payload)
	} else {
		answer, err = a.next.Advise(ctx, payload)
	}

	a.log.LogAdvisorCall(a.model, hit, time.Since(start), err)
	return answer, err
}
