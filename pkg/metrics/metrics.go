package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vdotube_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Auth outcomes: login, refresh, register, logout; result is ok, rejected or error
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_auth_events_total",
			Help: "Authentication events by operation and result",
		},
		[]string{"operation", "result"},
	)

	// Stale refresh tokens presented; each one revokes a session
	RefreshReuseDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vdotube_refresh_token_reuse_total",
			Help: "Refresh tokens rejected because they were already rotated",
		},
	)

	// Toggles by kind (video, comment, tweet, channel) and resulting state
	Toggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_toggles_total",
			Help: "Like and subscription toggles",
		},
		[]string{"kind", "active"},
	)

	// Object store
	StorageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_storage_operations_total",
			Help: "Object store operations by type and result",
		},
		[]string{"operation", "result"},
	)

	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vdotube_storage_operation_duration_seconds",
			Help:    "Object store operation latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	// Circuit breaker state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vdotube_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)

	// Events published to or consumed from Kafka
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_events_published_total",
			Help: "Domain events published by type and result",
		},
		[]string{"type", "result"},
	)

	MediaCleanup = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vdotube_media_cleanup_total",
			Help: "Discarded media deletions by result",
		},
		[]string{"result"},
	)
)

// Middleware records request count and latency per matched route.
// Unmatched routes are collapsed into one label to bound cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Result maps an error to a metric label
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
