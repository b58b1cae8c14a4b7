// Package searcherator is a Go client for the Brave Web Search API that
// adds the plumbing a real workload needs on top of raw request/response:
//
//   - Request throttling: a concurrency cap plus a minimum spacing between
//     request starts, shareable across clients via WithThrottle
//   - A shared, lazily created connection pool with idempotent shutdown
//   - Cache-aside result caching keyed by query identity (term, language,
//     country, count) with a configurable TTL and per-call overrides
//   - Total response classification into typed errors (auth, rate limit,
//     timeout, network, API) with rate limit header telemetry
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - No ambient state: shared limits and pools are explicit dependencies
//   - Safe concurrent use of a single *Client instance
//   - No internal retries: classification tells callers what is retryable
//
// Typical usage:
//
//	client, err := searcherator.New(
//	    searcherator.WithAPIKey(key),
//	    searcherator.WithCacheTTL(24*time.Hour),
//	    searcherator.WithMetrics(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Shutdown()
//
//	urls, err := client.URLs(ctx, searcherator.Query{Term: "golang"})
//
// Failed searches are never cached and never retried; check IsRetryable
// (or the Is* predicates) to decide what to do with an error. The library
// avoids opinionated logging: provide a Logger (e.g. via WithSimpleLogger)
// and enable debug flags selectively for insight without noise.
package searcherator
