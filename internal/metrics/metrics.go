// Package metrics exposes Prometheus instrumentation for the dashboard:
// upload/load performance, view builds, and HTTP request metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_uploads_total",
			Help: "Total number of CSV uploads by outcome",
		},
		[]string{"outcome"}, // "loaded", "cached", "rejected"
	)

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_load_duration_seconds",
			Help:    "Duration of CSV parse and transform in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RowsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_rows_loaded",
			Help: "Row count of the currently loaded dataset",
		},
	)

	ViewBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_view_builds_total",
			Help: "Total number of dashboard view recomputations",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, path string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
