package searcherator

import (
	"errors"
	"fmt"
	"time"
)

// Error type tags carried by SearchError.Type. Classification of a
// response produces exactly one of these.
const (
	ErrorTypeValidation = "ValidationError"
	ErrorTypeAuth       = "AuthError"
	ErrorTypeRateLimit  = "RateLimitError"
	ErrorTypeAPI        = "APIError"
	ErrorTypeTimeout    = "TimeoutError"
	ErrorTypeNetwork    = "NetworkError"
	ErrorTypeCache      = "CacheError"
)

// Sentinel errors for common failure scenarios
var (
	// ErrMissingAPIKey is returned by New when no API key was provided and
	// the BRAVE_API_KEY environment variable is unset.
	ErrMissingAPIKey = errors.New("searcherator: missing API key")

	// ErrEmptyQuery is returned by Search when the query term is empty.
	ErrEmptyQuery = errors.New("searcherator: empty query term")
)

// SearchError is the error type returned for every failed search. Type
// carries the classification tag, StatusCode the HTTP status when one was
// received (0 means no status, i.e. the request never completed), and
// Telemetry the rate limit header snapshot on rate limit errors.
type SearchError struct {
	Type       string
	Message    string
	StatusCode int
	Body       string
	Telemetry  *RateLimitTelemetry
	RequestID  string
	Query      string
	URL        string
	Timestamp  time.Time
	Duration   time.Duration
	Cause      error
}

// IsRetryable determines if an error represents a failure that might succeed
// on a later attempt. Returns true for network errors, timeouts, and rate
// limiting (429). Returns false for auth, validation, and other API errors.
// The client never retries on its own; this helps callers decide.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		switch searchErr.Type {
		case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeRateLimit:
			return true
		default:
			return false
		}
	}

	return false
}

// IsAuthError reports whether err is a SearchError of type AuthError.
func IsAuthError(err error) bool {
	return hasErrorType(err, ErrorTypeAuth)
}

// IsRateLimitError reports whether err is a SearchError of type RateLimitError.
func IsRateLimitError(err error) bool {
	return hasErrorType(err, ErrorTypeRateLimit)
}

// IsTimeoutError reports whether err is a SearchError of type TimeoutError.
func IsTimeoutError(err error) bool {
	return hasErrorType(err, ErrorTypeTimeout)
}

// IsNetworkError reports whether err is a SearchError of type NetworkError.
func IsNetworkError(err error) bool {
	return hasErrorType(err, ErrorTypeNetwork)
}

// IsAPIError reports whether err is a SearchError of type APIError.
func IsAPIError(err error) bool {
	return hasErrorType(err, ErrorTypeAPI)
}

func hasErrorType(err error, errorType string) bool {
	var searchErr *SearchError
	if errors.As(err, &searchErr) {
		return searchErr.Type == errorType
	}
	return false
}

// Error implements error interface.
func (e *SearchError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *SearchError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*SearchError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *SearchError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Query != "" {
		info += fmt.Sprintf("Query: %s\n", e.Query)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Body != "" {
		info += fmt.Sprintf("Body: %s\n", e.Body)
	}
	if e.Telemetry != nil {
		info += fmt.Sprintf("Rate Limits: %s\n", e.Telemetry)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// maxErrorBodyBytes caps the response body carried inside a SearchError.
const maxErrorBodyBytes = 2048

func truncateBody(body []byte) string {
	if len(body) > maxErrorBodyBytes {
		return string(body[:maxErrorBodyBytes]) + "... (truncated)"
	}
	return string(body)
}
