// Package observability holds the Prometheus collectors shared by the HTTP, repository and cache layers.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SchemaFallbacks counts queries retried with a reduced projection after schema drift.
	SchemaFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dancehub_schema_fallbacks_total",
		Help: "Total number of queries retried with a fallback projection after schema drift",
	}, []string{"query", "projection"})

	// ProcedureLatency records remote procedure latency by procedure and outcome kind.
	ProcedureLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dancehub_procedure_latency_seconds",
		Help:    "Remote procedure latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure", "kind"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dancehub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// NotificationFailures counts best-effort side effects that failed.
	NotificationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dancehub_notification_failures_total",
		Help: "Total number of best-effort notifications and emails that failed",
	}, []string{"channel"})

	// HTTPRequests counts served requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dancehub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "status"})

	// HTTPDuration records request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dancehub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// AuthRejections counts 401 and 403 responses.
	AuthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dancehub_auth_rejections_total",
		Help: "Total number of unauthenticated or unauthorized requests",
	}, []string{"status"})

	// RateLimited counts requests rejected by the per-client limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dancehub_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)

// ObserveProcedure records the latency of proc since start. kind is "ok" on success.
func ObserveProcedure(proc, kind string, start time.Time) {
	ProcedureLatency.WithLabelValues(proc, kind).Observe(time.Since(start).Seconds())
}
