// Package metrics provides centralized Prometheus metrics registry for the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "odds_oracle"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of predictions by decision source",
	}, []string{"source"})
	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of fallback decisions by reason",
	}, []string{"reason"})
	PredictionErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of prediction requests rejected or failed",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of outbound HTTP circuit breaker trips",
	})
)

// Histogram metrics
var (
	NeighborCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "neighbor_count",
		Help:      "Number of similar historical matches found per prediction",
		Buckets:   []float64{0, 1, 5, 10, 20, 30, 40, 50},
	})
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of prediction requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	DecisionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "decision_confidence",
		Help:      "Confidence of returned decisions",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(FallbacksTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(NeighborCount)
		registry.MustRegister(PredictionDuration)
		registry.MustRegister(DecisionConfidence)

		// Dataset metrics
		registry.MustRegister(DatasetRows)
		registry.MustRegister(DatasetRefreshesTotal)
		registry.MustRegister(DatasetRefreshDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also serves metrics
// registered on the default registry, such as the advisor client's.
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// RecordPrediction records one served prediction.
func RecordPrediction(source, fallbackReason string, neighbors int, confidence, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(source).Inc()
	if fallbackReason != "" {
		FallbacksTotal.WithLabelValues(fallbackReason).Inc()
	}
	NeighborCount.Observe(float64(neighbors))
	DecisionConfidence.WithLabelValues(source).Observe(confidence)
	PredictionDuration.Observe(durationSeconds)
}

// RecordPredictionError records a rejected or failed prediction request.
func RecordPredictionError() {
	PredictionErrorsTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
