package searcherator

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Rate limit header names sent by the Brave Search API. Each value holds
// two comma-separated integers: the per-second window first, the
// per-month window second, e.g. "X-RateLimit-Limit: 15, 10000".
const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitTelemetry is a snapshot of the rate limit headers from a single
// response. Fields are nil when the corresponding header side was missing
// or unparseable. A snapshot is taken on every response regardless of
// status and replaces the previous one; values are never merged across
// responses.
type RateLimitTelemetry struct {
	LimitPerSecond     *int
	LimitPerMonth      *int
	RemainingPerSecond *int
	RemainingPerMonth  *int
	ResetPerSecond     *int
	ResetPerMonth      *int
}

// parseRateLimitHeaders extracts the telemetry snapshot from response
// headers. Parsing is best effort per field: a malformed or missing side
// leaves that field nil and never affects the other side. It never fails.
func parseRateLimitHeaders(header http.Header) RateLimitTelemetry {
	var t RateLimitTelemetry
	t.LimitPerSecond, t.LimitPerMonth = parseWindowPair(header.Get(headerRateLimitLimit))
	t.RemainingPerSecond, t.RemainingPerMonth = parseWindowPair(header.Get(headerRateLimitRemaining))
	t.ResetPerSecond, t.ResetPerMonth = parseWindowPair(header.Get(headerRateLimitReset))
	return t
}

// parseWindowPair splits a "per-second, per-month" header value. Either
// side may come back nil.
func parseWindowPair(value string) (perSecond, perMonth *int) {
	if value == "" {
		return nil, nil
	}

	parts := strings.Split(value, ",")
	if len(parts) > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			perSecond = &n
		}
	}
	if len(parts) > 1 {
		if n, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			perMonth = &n
		}
	}
	return perSecond, perMonth
}

// String renders the snapshot for logs. Absent fields print as "-".
func (t RateLimitTelemetry) String() string {
	return fmt.Sprintf("limit=%s/s %s/mo remaining=%s/s %s/mo reset=%ss %ss",
		fmtWindow(t.LimitPerSecond), fmtWindow(t.LimitPerMonth),
		fmtWindow(t.RemainingPerSecond), fmtWindow(t.RemainingPerMonth),
		fmtWindow(t.ResetPerSecond), fmtWindow(t.ResetPerMonth))
}

// IsZero reports whether no header side was present at all.
func (t RateLimitTelemetry) IsZero() bool {
	return t.LimitPerSecond == nil && t.LimitPerMonth == nil &&
		t.RemainingPerSecond == nil && t.RemainingPerMonth == nil &&
		t.ResetPerSecond == nil && t.ResetPerMonth == nil
}

func fmtWindow(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
