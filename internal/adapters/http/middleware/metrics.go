package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerhub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledgerhub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ledgerhub",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledgerhub",
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Accounting metrics, recorded by the handlers.
var (
	proposalsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerhub",
			Subsystem: "accounting",
			Name:      "proposals_processed_total",
			Help:      "Proposals that went through the processor, by final status",
		},
		[]string{"status"},
	)

	holdsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledgerhub",
			Subsystem: "accounting",
			Name:      "holds_created_total",
			Help:      "Holds placed on wallet balances",
		},
		[]string{"currency"},
	)

	dbConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "ledgerhub",
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "PostgreSQL pool connections by state",
		},
		[]string{"state"},
	)
)

// Metrics records request count, latency, in-flight gauge and response
// size for every route. The /metrics endpoint itself is skipped.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		// FullPath keeps the label cardinality bounded (":uid", not the
		// actual UUID).
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(c.Writer.Size()))
	}
}

// RecordProposalOutcome counts a processed proposal by its final status.
func RecordProposalOutcome(status string) {
	proposalsProcessedTotal.WithLabelValues(status).Inc()
}

// RecordHoldCreated counts a newly placed hold.
func RecordHoldCreated(currency string) {
	holdsCreatedTotal.WithLabelValues(currency).Inc()
}

// UpdateDBConnections publishes pgx pool statistics.
func UpdateDBConnections(idle, acquired, max int32) {
	dbConnections.WithLabelValues("idle").Set(float64(idle))
	dbConnections.WithLabelValues("acquired").Set(float64(acquired))
	dbConnections.WithLabelValues("max").Set(float64(max))
}
