package searcherator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"
)

// DefaultBaseURL is the Brave web search endpoint.
const DefaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// DefaultTimeout bounds a single HTTP request.
const DefaultTimeout = 30 * time.Second

// EnvAPIKey is the environment variable consulted when no WithAPIKey
// option is given.
const EnvAPIKey = "BRAVE_API_KEY"

// Client performs web searches against the Brave Search API, layering a
// request throttle, a shared connection pool, and cache-aside result
// caching around the raw HTTP call. It is safe for concurrent use.
//
// A failed search is never retried internally and never cached; callers
// own retry policy (see IsRetryable).
type Client struct {
	apiKey   string
	baseURL  string
	timeout  time.Duration
	throttle *Throttle
	sessions *SessionPool
	cache    Cache
	cacheTTL time.Duration
	metrics  *MetricsCollector
	debug    *DebugConfig
	logger   Logger

	telemetryMu sync.Mutex
	telemetry   RateLimitTelemetry
}

// New constructs a Client using the provided functional options. The API
// key must come from WithAPIKey or the BRAVE_API_KEY environment variable;
// a missing key fails construction before any network activity.
func New(options ...Option) (*Client, error) {
	client := &Client{
		apiKey:   os.Getenv(EnvAPIKey),
		baseURL:  DefaultBaseURL,
		timeout:  DefaultTimeout,
		cache:    NewInMemoryCache(),
		cacheTTL: DefaultCacheTTL,
		debug:    DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if client.throttle == nil {
		client.throttle = NewThrottle(DefaultConcurrency, DefaultMinInterval)
	}
	if client.sessions == nil {
		client.sessions = NewSessionPool()
	}

	if client.apiKey == "" {
		return nil, &SearchError{
			Type:    ErrorTypeValidation,
			Message: fmt.Sprintf("missing API key: use WithAPIKey or set %s", EnvAPIKey),
			Cause:   ErrMissingAPIKey,
		}
	}

	if err := client.ValidateConfiguration(); err != nil {
		return nil, err
	}

	return client, nil
}

// Search runs one query through the full pipeline: cache check, throttle
// admission, shared session, HTTP call, classification, cache write. A hit
// returns without touching the throttle or the network. The returned
// Document is the decoded response body; treat it as read-only, cached
// calls share it.
func (c *Client) Search(ctx context.Context, query Query) (Document, error) {
	start := time.Now()
	query = query.withDefaults()

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if query.Term == "" {
		serr := &SearchError{
			Type:      ErrorTypeValidation,
			Message:   "query term must not be empty",
			RequestID: requestID,
			Timestamp: time.Now(),
			Cause:     ErrEmptyQuery,
		}
		c.metrics.RecordError(serr.Type)
		return nil, serr
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Search starting", "requestID", requestID, "term", query.Term,
			"count", query.Count, "country", query.Country, "language", query.Language)
	}

	control := cacheControlFromContext(ctx)
	cacheEnabled := c.cache != nil && (control == nil || !control.Disabled)
	readCache := cacheEnabled && (control == nil || !control.Refresh)
	cacheKey := query.CacheKey()

	if readCache {
		if doc, found := c.cache.Get(cacheKey); found {
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit", "requestID", requestID, "cacheKey", cacheKey)
			}
			c.metrics.RecordCacheHit()
			c.metrics.RecordSearch(OutcomeCacheHit, time.Since(start))
			return doc, nil
		}

		c.metrics.RecordCacheMiss()
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Cache miss", "requestID", requestID, "cacheKey", cacheKey)
		}
	}

	doc, err := c.fetch(ctx, query, requestID, start)
	if err != nil {
		return nil, err
	}

	if cacheEnabled {
		ttl := c.cacheTTL
		if control != nil && control.TTL > 0 {
			ttl = control.TTL
		}
		c.cache.Set(cacheKey, doc, ttl)

		if memCache, ok := c.cache.(*InMemoryCache); ok {
			c.metrics.RecordCacheSize(memCache.Len())
		}

		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Response cached", "requestID", requestID, "cacheKey", cacheKey, "ttl", ttl)
		}
	}

	return doc, nil
}

// fetch is the cache-miss path: throttle, session, HTTP call,
// classification. Telemetry is captured from every response before the
// status is even looked at.
func (c *Client) fetch(ctx context.Context, query Query, requestID string, start time.Time) (Document, error) {
	throttleStart := time.Now()
	if err := c.throttle.Acquire(ctx); err != nil {
		// Cancelled or deadline hit while queued; nothing was issued.
		return nil, err
	}
	defer c.throttle.Release()

	waited := time.Since(throttleStart)
	c.metrics.RecordThrottleWait(waited)
	if c.debug != nil && c.debug.Enabled && c.debug.LogThrottle && c.logger != nil {
		c.logger.Debug("Throttle admitted", "requestID", requestID, "waited", waited)
	}

	c.metrics.RecordSearchStart()
	defer c.metrics.RecordSearchEnd()

	session := c.sessions.Acquire(c.timeout)

	timeout := c.timeout
	if query.Timeout > 0 {
		timeout = query.Timeout
	}

	reqCtx := ctx
	if _, ok := ctx.Deadline(); !ok && timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	requestURL := c.baseURL + "?" + query.Values().Encode()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, requestURL, nil)
	if err != nil {
		serr := &SearchError{
			Type:    ErrorTypeValidation,
			Message: "failed to build request",
			Cause:   err,
		}
		return nil, c.failSearch(serr, query, requestID, requestURL, start)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := session.Do(req)
	if err != nil {
		serr := classifyTransportError(err, timeout)
		return nil, c.failSearch(serr, query, requestID, requestURL, start)
	}
	defer resp.Body.Close()

	telemetry := parseRateLimitHeaders(resp.Header)
	c.storeTelemetry(telemetry)
	c.metrics.RecordRateLimitTelemetry(telemetry)

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		serr := &SearchError{
			Type:       ErrorTypeNetwork,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      readErr,
		}
		return nil, c.failSearch(serr, query, requestID, requestURL, start)
	}

	if resp.StatusCode != http.StatusOK {
		serr := classifyStatus(resp.StatusCode, resp.Header, body)
		return nil, c.failSearch(serr, query, requestID, requestURL, start)
	}

	doc, decodeErr := decodeDocument(body)
	if decodeErr != nil {
		// A 200 with an undecodable body is a delivery failure, not an
		// API outcome.
		serr := &SearchError{
			Type:       ErrorTypeNetwork,
			Message:    "malformed response body",
			StatusCode: resp.StatusCode,
			Cause:      decodeErr,
		}
		return nil, c.failSearch(serr, query, requestID, requestURL, start)
	}

	duration := time.Since(start)
	c.metrics.RecordSearch(OutcomeSuccess, duration)
	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Search succeeded", "requestID", requestID, "status", resp.StatusCode, "duration", duration)
	}

	return doc, nil
}

// failSearch stamps call context onto a classified error and records it.
func (c *Client) failSearch(serr *SearchError, query Query, requestID, url string, start time.Time) *SearchError {
	serr.RequestID = requestID
	serr.Query = query.Term
	serr.URL = url
	serr.Timestamp = time.Now()
	serr.Duration = time.Since(start)

	c.metrics.RecordError(serr.Type)
	c.metrics.RecordSearch(serr.Type, serr.Duration)

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Warn("Search failed", "requestID", requestID, "type", serr.Type, "error", serr.Message)
	}

	return serr
}

// URLs runs the query and returns the url of every web result, in
// response order.
func (c *Client) URLs(ctx context.Context, query Query) ([]string, error) {
	doc, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return doc.URLs(), nil
}

// Results runs the query and returns the raw web result entries.
func (c *Client) Results(ctx context.Context, query Query) ([]map[string]any, error) {
	doc, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return doc.WebResults(), nil
}

// LastTelemetry returns the rate limit snapshot from the most recent
// response observed by this client, successful or not. The zero value
// means no response has been seen yet.
func (c *Client) LastTelemetry() RateLimitTelemetry {
	c.telemetryMu.Lock()
	defer c.telemetryMu.Unlock()
	return c.telemetry
}

func (c *Client) storeTelemetry(t RateLimitTelemetry) {
	c.telemetryMu.Lock()
	c.telemetry = t
	c.telemetryMu.Unlock()
}

// Shutdown closes the shared connection pool. Idempotent; the client
// stays usable and the pool is recreated on the next search. Call it once
// after all concurrent searches complete.
func (c *Client) Shutdown() {
	c.sessions.Shutdown()
}

// String identifies the client without exposing the API key.
func (c *Client) String() string {
	return fmt.Sprintf("searcherator.Client(concurrency=%d, interval=%v, timeout=%v)",
		c.throttle.capacity, c.throttle.minInterval, c.timeout)
}
