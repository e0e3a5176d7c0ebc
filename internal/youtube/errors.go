package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// APIError is a non-rate-limit API failure with its HTTP status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("YouTube API rejected the API key (status %d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("YouTube API error (status %d): %s", e.StatusCode, e.Message)
	}
}

// RateLimitError signals the provider's "too many requests" response. It is
// kept distinct from APIError so the single backoff-and-retry policy applies
// only to it.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("YouTube API rate limit exceeded (retry after %s)", e.RetryAfter)
	}
	return "YouTube API rate limit exceeded"
}

// IsTransient reports whether err is worth a bounded retry: rate limits,
// server-side 5xx, timeouts, and network failures. Auth and client errors
// are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 && apiErr.StatusCode < 600
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
