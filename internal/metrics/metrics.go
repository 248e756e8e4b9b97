// Package metrics exposes Prometheus metrics for the Harbor server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts handled HTTP requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harbor_http_requests_total",
		Help: "Total HTTP requests handled, by method and status class.",
	}, []string{"method", "status_class"})

	// HTTPDuration observes request latency by method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "harbor_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// StoreRetryAttempts counts store operation attempts made under the retry
	// executor, by operation label. Includes first attempts.
	StoreRetryAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "harbor_store_retry_attempts_total",
		Help: "Store operation attempts under the retry executor, by operation.",
	}, []string{"operation"})

	// AuditWriteFailures counts audit records lost to store failures.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harbor_audit_write_failures_total",
		Help: "Audit records dropped because the store write failed.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
