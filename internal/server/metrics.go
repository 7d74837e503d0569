package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promauto registers these against the default registry, which is what the
// /metrics handler serves.
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloom_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	datasetsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bloom_datasets_loaded",
			Help: "Number of datasets currently registered",
		},
	)

	decodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloom_decode_failures_total",
			Help: "Total number of rejected dataset payloads",
		},
	)
)
