package searcherator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// classifyStatus maps a non-200 response to its error. It is pure: the
// same status, headers, and body always produce the same outcome, and
// every status has one.
func classifyStatus(status int, header http.Header, body []byte) *SearchError {
	switch status {
	case http.StatusUnauthorized:
		return &SearchError{
			Type:       ErrorTypeAuth,
			Message:    "invalid API key or unauthorized access",
			StatusCode: status,
		}
	case http.StatusTooManyRequests:
		telemetry := parseRateLimitHeaders(header)
		return &SearchError{
			Type:       ErrorTypeRateLimit,
			Message:    fmt.Sprintf("rate limit exceeded (%s)", telemetry),
			StatusCode: status,
			Body:       truncateBody(body),
			Telemetry:  &telemetry,
		}
	default:
		return &SearchError{
			Type:       ErrorTypeAPI,
			Message:    "request failed",
			StatusCode: status,
			Body:       truncateBody(body),
		}
	}
}

// classifyTransportError maps a failure where no HTTP status was received.
// StatusCode stays 0 on both branches: there was no status.
func classifyTransportError(err error, timeout time.Duration) *SearchError {
	if isTimeout(err) {
		return &SearchError{
			Type:    ErrorTypeTimeout,
			Message: fmt.Sprintf("request timed out after %v", timeout),
			Cause:   err,
		}
	}
	return &SearchError{
		Type:    ErrorTypeNetwork,
		Message: "network request failed",
		Cause:   err,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
