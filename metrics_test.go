package searcherator

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
}

func TestNewMetricsCollectorWithRegistry(t *testing.T) {
	registry := prometheus.NewRegistry()
	mc := NewMetricsCollectorWithRegistry(registry)

	if mc.searchesTotal == nil || mc.searchDuration == nil {
		t.Error("Expected search metrics to be initialized")
	}
	if mc.searchesInFlight == nil || mc.throttleWait == nil {
		t.Error("Expected throttle metrics to be initialized")
	}
	if mc.cacheHits == nil || mc.cacheMisses == nil || mc.cacheSize == nil {
		t.Error("Expected cache metrics to be initialized")
	}
	if mc.rateLimitRemaining == nil || mc.errorsTotal == nil {
		t.Error("Expected rate limit and error metrics to be initialized")
	}
	if mc.GetRegistry() != registry {
		t.Error("Expected GetRegistry to return the supplied registry")
	}
}

func TestNewMetricsCollectorWithWrappedRegisterer(t *testing.T) {
	wrapped := prometheus.WrapRegistererWithPrefix("app_", prometheus.NewRegistry())
	mc := NewMetricsCollectorWithRegistry(wrapped)

	if mc.GetRegistry() != nil {
		t.Error("Expected nil registry for a wrapped registerer")
	}
	mc.RecordSearch(OutcomeSuccess, time.Millisecond)
}

func TestRecordSearch(t *testing.T) {
	mc := newTestCollector()

	mc.RecordSearch(OutcomeSuccess, 100*time.Millisecond)
	mc.RecordSearch(OutcomeSuccess, 200*time.Millisecond)
	mc.RecordSearch(ErrorTypeAPI, 50*time.Millisecond)

	if got := testutil.ToFloat64(mc.searchesTotal.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("Expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(mc.searchesTotal.WithLabelValues(ErrorTypeAPI)); got != 1 {
		t.Errorf("Expected 1 API error outcome, got %v", got)
	}
	if n := testutil.CollectAndCount(mc.searchDuration, "searcherator_search_duration_seconds"); n != 2 {
		t.Errorf("Expected 2 duration series, got %d", n)
	}
}

func TestRecordSearchStartEnd(t *testing.T) {
	mc := newTestCollector()

	mc.RecordSearchStart()
	mc.RecordSearchStart()
	if got := testutil.ToFloat64(mc.searchesInFlight); got != 2 {
		t.Errorf("Expected 2 in flight, got %v", got)
	}

	mc.RecordSearchEnd()
	if got := testutil.ToFloat64(mc.searchesInFlight); got != 1 {
		t.Errorf("Expected 1 in flight, got %v", got)
	}
}

func TestRecordCacheHitMiss(t *testing.T) {
	mc := newTestCollector()

	mc.RecordCacheHit()
	mc.RecordCacheHit()
	mc.RecordCacheMiss()

	if got := testutil.ToFloat64(mc.cacheHits); got != 2 {
		t.Errorf("Expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(mc.cacheMisses); got != 1 {
		t.Errorf("Expected 1 miss, got %v", got)
	}
}

func TestRecordCacheSize(t *testing.T) {
	mc := newTestCollector()

	mc.RecordCacheSize(42)

	if got := testutil.ToFloat64(mc.cacheSize); got != 42 {
		t.Errorf("Expected cache size 42, got %v", got)
	}
}

func TestRecordRateLimitTelemetry(t *testing.T) {
	mc := newTestCollector()

	mc.RecordRateLimitTelemetry(RateLimitTelemetry{
		RemainingPerSecond: intPtr(14),
		RemainingPerMonth:  intPtr(9999),
	})

	if got := testutil.ToFloat64(mc.rateLimitRemaining.WithLabelValues("second")); got != 14 {
		t.Errorf("Expected 14 remaining per second, got %v", got)
	}
	if got := testutil.ToFloat64(mc.rateLimitRemaining.WithLabelValues("month")); got != 9999 {
		t.Errorf("Expected 9999 remaining per month, got %v", got)
	}

	// An empty snapshot records nothing and does not panic.
	mc.RecordRateLimitTelemetry(RateLimitTelemetry{})
}

func TestRecordError(t *testing.T) {
	mc := newTestCollector()

	mc.RecordError(ErrorTypeRateLimit)
	mc.RecordError(ErrorTypeRateLimit)
	mc.RecordError(ErrorTypeNetwork)

	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues(ErrorTypeRateLimit)); got != 2 {
		t.Errorf("Expected 2 rate limit errors, got %v", got)
	}
	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues(ErrorTypeNetwork)); got != 1 {
		t.Errorf("Expected 1 network error, got %v", got)
	}
}

func TestRecordThrottleWait(t *testing.T) {
	mc := newTestCollector()

	mc.RecordThrottleWait(10 * time.Millisecond)

	if n := testutil.CollectAndCount(mc.throttleWait, "searcherator_throttle_wait_seconds"); n != 1 {
		t.Errorf("Expected throttle wait histogram, got %d series", n)
	}
}

func TestMetricsCollectorNilSafe(t *testing.T) {
	var mc *MetricsCollector

	mc.RecordSearch(OutcomeSuccess, time.Second)
	mc.RecordSearchStart()
	mc.RecordSearchEnd()
	mc.RecordThrottleWait(time.Millisecond)
	mc.RecordCacheHit()
	mc.RecordCacheMiss()
	mc.RecordCacheSize(1)
	mc.RecordRateLimitTelemetry(RateLimitTelemetry{RemainingPerSecond: intPtr(1)})
	mc.RecordError(ErrorTypeNetwork)

	if mc.GetRegistry() != nil {
		t.Error("Expected nil registry from nil collector")
	}
}

func TestClientRecordsMetrics(t *testing.T) {
	mc := newTestCollector()
	var calls int64
	client, _ := newTestClient(t, okHandler(&calls), WithMetricsCollector(mc))
	ctx := context.Background()

	if _, err := client.Search(ctx, Query{Term: "golang"}); err != nil {
		t.Fatalf("First search failed: %v", err)
	}
	if _, err := client.Search(ctx, Query{Term: "golang"}); err != nil {
		t.Fatalf("Second search failed: %v", err)
	}

	if got := testutil.ToFloat64(mc.searchesTotal.WithLabelValues(OutcomeSuccess)); got != 1 {
		t.Errorf("Expected 1 success outcome, got %v", got)
	}
	if got := testutil.ToFloat64(mc.searchesTotal.WithLabelValues(OutcomeCacheHit)); got != 1 {
		t.Errorf("Expected 1 cache hit outcome, got %v", got)
	}
	if got := testutil.ToFloat64(mc.cacheHits); got != 1 {
		t.Errorf("Expected 1 cache hit, got %v", got)
	}
	if got := testutil.ToFloat64(mc.cacheMisses); got != 1 {
		t.Errorf("Expected 1 cache miss, got %v", got)
	}
	if got := testutil.ToFloat64(mc.searchesInFlight); got != 0 {
		t.Errorf("Expected no searches in flight, got %v", got)
	}
	if atomic.LoadInt64(&calls) != 1 {
		t.Errorf("Expected one upstream call, got %d", calls)
	}
}

func TestClientRecordsErrorMetrics(t *testing.T) {
	mc := newTestCollector()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}, WithMetricsCollector(mc))

	if _, err := client.Search(context.Background(), Query{Term: "golang"}); err == nil {
		t.Fatal("Expected search to fail")
	}

	if got := testutil.ToFloat64(mc.errorsTotal.WithLabelValues(ErrorTypeAPI)); got != 1 {
		t.Errorf("Expected 1 API error recorded, got %v", got)
	}
	if got := testutil.ToFloat64(mc.searchesTotal.WithLabelValues(ErrorTypeAPI)); got != 1 {
		t.Errorf("Expected 1 API error outcome, got %v", got)
	}
}

func TestClientRecordsTelemetryGauges(t *testing.T) {
	mc := newTestCollector()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerRateLimitRemaining, "7, 1234")
		fmt.Fprint(w, successBody)
	}, WithMetricsCollector(mc))

	if _, err := client.Search(context.Background(), Query{Term: "golang"}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if got := testutil.ToFloat64(mc.rateLimitRemaining.WithLabelValues("second")); got != 7 {
		t.Errorf("Expected 7 remaining per second, got %v", got)
	}
	if got := testutil.ToFloat64(mc.rateLimitRemaining.WithLabelValues("month")); got != 1234 {
		t.Errorf("Expected 1234 remaining per month, got %v", got)
	}
}
