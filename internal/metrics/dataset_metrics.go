package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset metrics
var (
	DatasetRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_rows",
		Help:      "Number of rows in the loaded historical match table",
	})

	DatasetRefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dataset_refreshes_total",
		Help:      "Total number of dataset refreshes by status",
	}, []string{"status"})

	DatasetRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dataset_refresh_duration_seconds",
		Help:      "Duration of dataset refreshes in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
	})
)

// RecordDatasetRefresh records a refresh attempt. The row gauge only moves on success.
func RecordDatasetRefresh(rows int, durationSeconds float64, err error) {
	DatasetRefreshDuration.Observe(durationSeconds)
	if err != nil {
		DatasetRefreshesTotal.WithLabelValues("error").Inc()
		return
	}
	DatasetRefreshesTotal.WithLabelValues("success").Inc()
	DatasetRows.Set(float64(rows))
}
