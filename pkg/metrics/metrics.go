// Package metrics declares the Prometheus collectors for validation runs,
// the HTTP surface, and database access.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// External call kinds.
const (
	KindRepository = "repository"
	KindOracle     = "oracle"
)

var (
	// Validations counts completed runs by status.
	Validations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackid_validations_total",
		Help: "Completed validation runs by status",
	}, []string{"status"})

	// ValidationDuration tracks wall time per run.
	ValidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hackid_validation_duration_seconds",
		Help:    "Validation run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	// ExternalCalls counts metered calls by kind.
	ExternalCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackid_external_calls_total",
		Help: "External calls issued by validation runs",
	}, []string{"kind"})

	// OracleRetries counts rate-limited oracle attempts that were retried.
	OracleRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hackid_oracle_retries_total",
		Help: "Oracle calls retried after a rate-limit signal",
	})
)

var (
	// HTTPRequests counts served requests by method and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hackid_http_requests_total",
		Help: "HTTP requests served by method and status",
	}, []string{"method", "code"})

	// HTTPDuration tracks request latency by method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hackid_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// DBQueries tracks database round trips by operation and outcome.
	DBQueries = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hackid_db_query_duration_seconds",
		Help:    "Database operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})
)

// ObserveQuery records one database operation.
func ObserveQuery(op string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	DBQueries.WithLabelValues(op, outcome).Observe(time.Since(started).Seconds())
}

// ObserveValidation records a finished run.
func ObserveValidation(status string, elapsed time.Duration) {
	Validations.WithLabelValues(status).Inc()
	ValidationDuration.Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
