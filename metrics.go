package searcherator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcome labels used by the metrics collector.
const (
	OutcomeSuccess  = "success"
	OutcomeCacheHit = "cache_hit"
)

// MetricsCollector provides Prometheus metrics for the search lifecycle:
// outcomes, latency, throttle pressure, cache effectiveness, and the rate
// limit headroom reported by the API. It is safe for concurrent use, and
// every record method tolerates a nil receiver so callers never guard.
type MetricsCollector struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec

	searchesInFlight prometheus.Gauge

	throttleWait prometheus.Histogram

	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	rateLimitRemaining *prometheus.GaugeVec

	errorsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		searchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "searcherator_searches_total",
				Help: "Total number of searches by outcome",
			},
			[]string{"outcome"},
		),
		searchDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "searcherator_search_duration_seconds",
				Help:    "Duration of searches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		searchesInFlight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "searcherator_searches_in_flight",
				Help: "Number of searches currently in flight",
			},
		),
		throttleWait: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "searcherator_throttle_wait_seconds",
				Help:    "Time spent waiting for throttle admission in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		cacheHits: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "searcherator_cache_hits_total",
				Help: "Total number of cache hits",
			},
		),
		cacheMisses: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "searcherator_cache_misses_total",
				Help: "Total number of cache misses",
			},
		),
		cacheSize: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "searcherator_cache_size",
				Help: "Current number of entries in cache",
			},
		),
		rateLimitRemaining: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "searcherator_rate_limit_remaining",
				Help: "Remaining API requests as reported by the rate limit headers",
			},
			[]string{"window"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "searcherator_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}

	if r, ok := registry.(*prometheus.Registry); ok {
		mc.registry = r
	}

	return mc
}

// RecordSearch records outcome count and duration.
func (mc *MetricsCollector) RecordSearch(outcome string, duration time.Duration) {
	if mc == nil {
		return
	}

	mc.searchesTotal.WithLabelValues(outcome).Inc()
	mc.searchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordSearchStart increments in-flight gauge.
func (mc *MetricsCollector) RecordSearchStart() {
	if mc == nil {
		return
	}

	mc.searchesInFlight.Inc()
}

// RecordSearchEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordSearchEnd() {
	if mc == nil {
		return
	}

	mc.searchesInFlight.Dec()
}

// RecordThrottleWait observes time spent blocked at the throttle.
func (mc *MetricsCollector) RecordThrottleWait(duration time.Duration) {
	if mc == nil {
		return
	}

	mc.throttleWait.Observe(duration.Seconds())
}

// RecordCacheHit increments cache hit counter.
func (mc *MetricsCollector) RecordCacheHit() {
	if mc == nil {
		return
	}

	mc.cacheHits.Inc()
}

// RecordCacheMiss increments cache miss counter.
func (mc *MetricsCollector) RecordCacheMiss() {
	if mc == nil {
		return
	}

	mc.cacheMisses.Inc()
}

// RecordCacheSize sets cache size gauge.
func (mc *MetricsCollector) RecordCacheSize(size int) {
	if mc == nil {
		return
	}

	mc.cacheSize.Set(float64(size))
}

// RecordRateLimitTelemetry publishes the remaining-call gauges from a
// header snapshot. Absent fields leave the gauges untouched.
func (mc *MetricsCollector) RecordRateLimitTelemetry(t RateLimitTelemetry) {
	if mc == nil {
		return
	}

	if t.RemainingPerSecond != nil {
		mc.rateLimitRemaining.WithLabelValues("second").Set(float64(*t.RemainingPerSecond))
	}
	if t.RemainingPerMonth != nil {
		mc.rateLimitRemaining.WithLabelValues("month").Set(float64(*t.RemainingPerMonth))
	}
}

// RecordError increments error counter by type.
func (mc *MetricsCollector) RecordError(errorType string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType).Inc()
}

// GetRegistry exposes the underlying prometheus registry when the
// collector was built on one.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	return mc.registry
}
