package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LLMRequestsTotal tracks chat-completions calls by outcome
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of chat-completions requests by outcome",
		},
		[]string{"status"},
	)

	// LLMRequestLatency tracks chat-completions latency
	LLMRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_latency_seconds",
			Help:    "Chat-completions latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"model"},
	)

	// LLMCacheRequestsTotal tracks response cache lookups
	LLMCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_cache_requests_total",
			Help: "Total number of advisor cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	// LLMCacheHitRatio tracks cache hit ratio
	LLMCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "llm_cache_hit_ratio",
			Help: "Advisor response cache hit ratio",
		},
	)
)
