package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Vimeo storage metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Remote API calls
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "api_requests_total",
			Help:      "Total Vimeo API calls",
		},
		[]string{"operation", "status"},
	)

	APIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "api_duration_seconds",
			Help:      "Vimeo API call duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 30},
		},
		[]string{"operation"},
	)

	// Result cache lookups
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by outcome (hit, miss, bypass, verify_failed)",
		},
		[]string{"outcome"},
	)

	// Upload counters
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "uploads_total",
			Help:      "Total video uploads",
		},
		[]string{"source", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "vimeo_storage",
			Name:      "upload_bytes_total",
			Help:      "Total bytes uploaded",
		},
		[]string{"source"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordAPICall records a Vimeo API call
func RecordAPICall(operation, status string, durationSec float64) {
	APIRequestsTotal.WithLabelValues(operation, status).Inc()
	APIDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordCacheLookup records the outcome of a result cache lookup
func RecordCacheLookup(outcome string) {
	CacheLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordUpload records a video upload
func RecordUpload(source, status string, bytes int64) {
	UploadsTotal.WithLabelValues(source, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(source).Add(float64(bytes))
	}
}
