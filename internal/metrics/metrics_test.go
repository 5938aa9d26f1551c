package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()

	modelBefore := testutil.ToFloat64(PredictionsTotal.WithLabelValues("model"))
	fallbackBefore := testutil.ToFloat64(PredictionsTotal.WithLabelValues("fallback"))
	reasonBefore := testutil.ToFloat64(FallbacksTotal.WithLabelValues("no_neighbors"))

	RecordPrediction("model", "", 12, 0.7, 0.25)
	RecordPrediction("fallback", "no_neighbors", 0, 0.5, 0.01)

	assert.Equal(t, modelBefore+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues("model")))
	assert.Equal(t, fallbackBefore+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues("fallback")))
	assert.Equal(t, reasonBefore+1, testutil.ToFloat64(FallbacksTotal.WithLabelValues("no_neighbors")))
}

func TestRecordPredictionError(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionErrorsTotal)

	RecordPredictionError()

	assert.Equal(t, before+1, testutil.ToFloat64(PredictionErrorsTotal))
}

func TestRecordDatasetRefresh(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		rows     int
		err      error
		wantRows float64
	}{
		{name: "success sets rows", rows: 1200, wantRows: 1200},
		{name: "failure keeps rows", rows: 0, err: errors.New("boom"), wantRows: 1200},
		{name: "empty table", rows: 0, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordDatasetRefresh(tt.rows, 0.3, tt.err)
			})
			assert.Equal(t, tt.wantRows, testutil.ToFloat64(DatasetRows))
		})
	}
}

func TestRecordCircuitBreakerTrip(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(CircuitBreakerTripsTotal)

	RecordCircuitBreakerTrip()

	assert.Equal(t, before+1, testutil.ToFloat64(CircuitBreakerTripsTotal))
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordPrediction("model", "", 3, 0.6, 0.1)

	handler := Handler()
	require.NotNil(t, handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "odds_oracle_predictions_total")
	assert.Contains(t, rec.Body.String(), "odds_oracle_dataset_rows")
}

func BenchmarkRecordPrediction(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPrediction("model", "", 20, 0.7, 0.2)
	}
}
