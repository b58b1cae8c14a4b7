package searcherator

import (
	"fmt"
	"net/url"
	"time"
)

// Option represents a configuration option
type Option func(*Client)

// WithAPIKey sets the Brave Search API subscription token. Overrides the
// BRAVE_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithBaseURL overrides the search endpoint. Mainly useful for tests and
// proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithThrottle injects a throttle, usually one shared by several clients
// so they stay under one combined limit.
func WithThrottle(t *Throttle) Option {
	return func(c *Client) {
		c.throttle = t
	}
}

// WithThrottleLimits gives the client its own throttle with the supplied
// concurrency capacity and start spacing.
func WithThrottleLimits(capacity int64, minInterval time.Duration) Option {
	return func(c *Client) {
		c.throttle = NewThrottle(capacity, minInterval)
	}
}

// WithSessionPool injects a connection pool, usually one shared by several
// clients.
func WithSessionPool(p *SessionPool) Option {
	return func(c *Client) {
		c.sessions = p
	}
}

// WithCache sets a custom cache implementation, e.g. a SQLiteCache for
// results that survive restarts.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheTTL sets how long cached searches stay fresh.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithoutCache disables result caching entirely.
func WithoutCache() Option {
	return func(c *Client) {
		c.cache = nil
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errors []string

	// Validate each configuration section
	errors = append(errors, c.validateCredentials()...)
	errors = append(errors, c.validateThrottleConfig()...)
	errors = append(errors, c.validateSessionConfig()...)
	errors = append(errors, c.validateCacheConfig()...)
	errors = append(errors, c.validateEndpointConfig()...)
	errors = append(errors, c.validateDebugConfig()...)
	errors = append(errors, c.validateExtremeValues()...)

	if len(errors) > 0 {
		return &SearchError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errors),
		}
	}

	return nil
}

// validateCredentials validates the API key
func (c *Client) validateCredentials() []string {
	var errors []string

	if c.apiKey == "" {
		errors = append(errors, fmt.Sprintf("API key must be set via WithAPIKey or %s", EnvAPIKey))
	}

	return errors
}

// validateThrottleConfig validates throttle configuration
func (c *Client) validateThrottleConfig() []string {
	var errors []string

	if c.throttle == nil {
		errors = append(errors, "throttle cannot be nil")
		return errors
	}

	if c.throttle.capacity < 1 {
		errors = append(errors, "throttle capacity must be at least 1")
	}
	if c.throttle.minInterval < 0 {
		errors = append(errors, "throttle minInterval must be non-negative")
	}

	return errors
}

// validateSessionConfig validates the connection pool
func (c *Client) validateSessionConfig() []string {
	var errors []string

	if c.sessions == nil {
		errors = append(errors, "session pool cannot be nil")
	}

	return errors
}

// validateCacheConfig validates cache configuration
func (c *Client) validateCacheConfig() []string {
	var errors []string

	if c.cache != nil && c.cacheTTL <= 0 {
		errors = append(errors, "cacheTTL must be positive when cache is enabled")
	}

	return errors
}

// validateEndpointConfig validates the endpoint and timeout
func (c *Client) validateEndpointConfig() []string {
	var errors []string

	if c.baseURL == "" {
		errors = append(errors, "baseURL cannot be empty")
	} else if u, err := url.Parse(c.baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, "baseURL must be an absolute URL")
	}

	if c.timeout <= 0 {
		errors = append(errors, "timeout must be positive")
	}

	return errors
}

// validateDebugConfig validates debug configuration
func (c *Client) validateDebugConfig() []string {
	var errors []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errors = append(errors, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errors = append(errors, "logger must be set when debug is enabled")
		}
	}

	return errors
}

// validateExtremeValues validates that configuration values are within reasonable bounds
func (c *Client) validateExtremeValues() []string {
	var errors []string

	if c.throttle != nil {
		if c.throttle.capacity > 10000 {
			errors = append(errors, "throttle capacity > 10000 may exhaust file descriptors")
		}
		if c.throttle.minInterval > time.Minute {
			errors = append(errors, "throttle minInterval > 1m may cause requests to queue for very long")
		}
	}

	if c.timeout > 10*time.Minute {
		errors = append(errors, "timeout > 10m may cause requests to hang for too long")
	}

	if c.cache != nil && c.cacheTTL > 365*24*time.Hour {
		errors = append(errors, "cacheTTL > 1y may cause stale data issues")
	}

	return errors
}
