// Package api exposes predictions over HTTP and a websocket feed.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/odds-oracle/internal/dataset"
	"github.com/yourusername/odds-oracle/internal/models"
	"github.com/yourusername/odds-oracle/internal/predictor"
	"github.com/yourusername/odds-oracle/internal/service"
)

const maxListLimit = 500

// PredictionService is the subset of the service layer the handlers use
type PredictionService interface {
	Predict(ctx context.Context, query models.QueryOdds, k int) (*models.Prediction, error)
	Neighbors(query models.QueryOdds, k int) (predictor.NeighborSet, error)
	GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListPredictions(ctx context.Context, limit int) ([]*models.Prediction, error)
	DatasetInfo() dataset.Info
	RefreshDataset(ctx context.Context) (dataset.Info, error)
}

// PredictionRequest is the body of the predict and neighbors endpoints.
// Odds accept JSON numbers or numeric strings and keep their exact decimal value.
type PredictionRequest struct {
	HomeOdds json.Number `json:"home_odds" validate:"required"`
	DrawOdds json.Number `json:"draw_odds" validate:"required"`
	AwayOdds json.Number `json:"away_odds" validate:"required"`
	K        int         `json:"k" validate:"gte=0"`
}

// NeighborsResponse lists the similar historical matches for a query
type NeighborsResponse struct {
	Query     models.QueryOdds         `json:"query"`
	K         int                      `json:"k"`
	Count     int                      `json:"count"`
	Neighbors []models.HistoricalMatch `json:"neighbors"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Handler handles prediction requests
type Handler struct {
	svc            PredictionService
	validate       *validator.Validate
	logger         *logrus.Entry
	requestTimeout time.Duration
}

// NewHandler creates a new handler
func NewHandler(svc PredictionService, logger *logrus.Logger, requestTimeout time.Duration) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	if requestTimeout <= 0 {
		requestTimeout = 90 * time.Second
	}
	return &Handler{
		svc:            svc,
		validate:       validator.New(),
		logger:         logger.WithField("component", "api"),
		requestTimeout: requestTimeout,
	}
}

// CreatePrediction runs a prediction for the posted odds
func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	query, k, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	p, err := h.svc.Predict(ctx, query, k)
	if err != nil {
		h.respondServiceError(w, "failed to create prediction", err)
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

// GetPrediction returns a stored prediction by id
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.svc.GetPrediction(ctx, id)
	if err != nil {
		h.respondServiceError(w, "failed to get prediction", err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// ListPredictions returns the most recent stored predictions
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	predictions, err := h.svc.ListPredictions(ctx, limit)
	if err != nil {
		h.respondServiceError(w, "failed to list predictions", err)
		return
	}
	if predictions == nil {
		predictions = []*models.Prediction{}
	}

	respondJSON(w, http.StatusOK, predictions)
}

// FindNeighbors returns the similar historical matches without asking the advisor
func (h *Handler) FindNeighbors(w http.ResponseWriter, r *http.Request) {
	query, k, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	neighbors, err := h.svc.Neighbors(query, k)
	if err != nil {
		h.respondServiceError(w, "failed to find neighbors", err)
		return
	}

	rows := []models.HistoricalMatch(neighbors)
	if rows == nil {
		rows = []models.HistoricalMatch{}
	}
	respondJSON(w, http.StatusOK, NeighborsResponse{
		Query:     query,
		K:         k,
		Count:     len(rows),
		Neighbors: rows,
	})
}

// GetDataset describes the loaded dataset
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.DatasetInfo())
}

// RefreshDataset reloads the dataset from its source
func (h *Handler) RefreshDataset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	info, err := h.svc.RefreshDataset(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Dataset refresh failed")
		respondError(w, http.StatusBadGateway, "dataset refresh failed; previous table kept")
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (h *Handler) decodeQuery(w http.ResponseWriter, r *http.Request) (models.QueryOdds, int, bool) {
	var req PredictionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return models.QueryOdds{}, 0, false
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "home_odds, draw_odds and away_odds are required and k must not be negative")
		return models.QueryOdds{}, 0, false
	}

	query, err := models.ParseQueryOdds(req.HomeOdds.String(), req.DrawOdds.String(), req.AwayOdds.String())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return models.QueryOdds{}, 0, false
	}

	return query, req.K, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error(message)
		respondError(w, status, message)
		return
	}
	respondError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPersistenceDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, dataset.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: status})
}
