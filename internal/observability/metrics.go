// Package observability provides metrics and tracing for the posts API.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreOperations counts post store operations by backend, operation and result.
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterblog_store_operations_total",
		Help: "Total number of post store operations",
	}, []string{"backend", "operation", "result"})

	// StoreLatency records post store latency by backend and operation.
	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "masterblog_store_operation_seconds",
		Help:    "Post store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "operation"})

	// StoreCollectionSize is the number of posts seen by the last load or save.
	StoreCollectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "masterblog_store_collection_size",
		Help: "Number of posts in the collection after the last store operation",
	}, []string{"backend"})

	// SlowQueries counts SQL statements slower than the store's slow threshold.
	SlowQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterblog_store_slow_queries_total",
		Help: "Total number of SQL statements above the slow query threshold",
	}, []string{"backend"})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterblog_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})

	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "masterblog_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// StoreMetrics records latency and outcome of store operations for one backend.
type StoreMetrics struct {
	backend string
}

// NewStoreMetrics returns a StoreMetrics labelled with backend.
func NewStoreMetrics(backend string) *StoreMetrics {
	return &StoreMetrics{backend: backend}
}

// Track returns a function that records the operation when called (e.g. defer).
func (m *StoreMetrics) Track(operation string) func(size int, err error) {
	start := time.Now()
	return func(size int, err error) {
		StoreLatency.WithLabelValues(m.backend, operation).Observe(time.Since(start).Seconds())
		result := "ok"
		if err != nil {
			result = "error"
		} else {
			StoreCollectionSize.WithLabelValues(m.backend).Set(float64(size))
		}
		StoreOperations.WithLabelValues(m.backend, operation, result).Inc()
	}
}
