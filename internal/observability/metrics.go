// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedPageCacheHits counts page-cache hits by view.
	FeedPageCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribune_feed_page_cache_hits_total",
		Help: "Total number of feed page cache hits by view",
	}, []string{"view"})

	// FeedPageCacheMisses counts page-cache misses by view.
	FeedPageCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribune_feed_page_cache_misses_total",
		Help: "Total number of feed page cache misses by view",
	}, []string{"view"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tribune_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// FeedQueryLatency records feed query latency by view.
	FeedQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tribune_feed_query_latency_seconds",
		Help:    "Feed query latency in seconds by view",
		Buckets: prometheus.DefBuckets,
	}, []string{"view"})
)

// InitMetrics creates the Fiber Prometheus middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// ObserveFeedQuery records the latency of a feed query since start.
func ObserveFeedQuery(view string, start time.Time) {
	FeedQueryLatency.WithLabelValues(view).Observe(time.Since(start).Seconds())
}
