// Package metrics provides Prometheus metrics collection for the image proxy.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// ImageRequestsTotal counts processed image requests by outcome and cache status.
	ImageRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_requests_total",
			Help: "Total number of image transformation requests",
		},
		[]string{"outcome", "cache"},
	)

	// ImageProcessingDuration tracks time spent in the image pipeline.
	ImageProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_processing_duration_seconds",
			Help:    "Image pipeline duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	// ImageOutputBytes tracks encoded response sizes.
	ImageOutputBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "image_output_bytes",
			Help:    "Size of encoded image responses in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// FetchTotal counts source fetches by scheme and result.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_total",
			Help: "Total number of source image fetches",
		},
		[]string{"scheme", "result"},
	)

	// FetchDuration tracks source fetch latency by scheme.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_fetch_duration_seconds",
			Help:    "Source image fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scheme"},
	)

	// CircuitBreakerState exposes breaker state by name (0 closed, 1 open, 2 half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// ThrottledRequestsTotal counts requests rejected by the per-client rate limiter.
	ThrottledRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "throttled_requests_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"client"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordImageRequest records the outcome of one pass through the image pipeline.
func RecordImageRequest(duration time.Duration, outcome string, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	ImageProcessingDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	ImageRequestsTotal.WithLabelValues(outcome, cache).Inc()
}

// RecordImageOutput records the size of an encoded response.
func RecordImageOutput(size int) {
	ImageOutputBytes.Observe(float64(size))
}

// RecordFetch records a source fetch attempt.
func RecordFetch(scheme, result string, duration time.Duration) {
	FetchTotal.WithLabelValues(scheme, result).Inc()
	FetchDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// RecordThrottled counts one rejected request for the given client kind.
func RecordThrottled(client string) {
	ThrottledRequestsTotal.WithLabelValues(client).Inc()
}

// SetCircuitBreakerState records the current state of a named circuit breaker.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
