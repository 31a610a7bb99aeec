package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Upstream failure kinds. Every error returned by an upstream client wraps
// exactly one of these.
var (
	ErrRateLimited  = errors.New("upstream rate limited")
	ErrUnavailable  = errors.New("upstream unavailable")
	ErrUnauthorized = errors.New("upstream unauthorized")
	ErrNotFound     = errors.New("upstream not found")
)

// StatusError is returned for non-2xx upstream responses
type StatusError struct {
	Kind       error
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.StatusCode, body)
}

func (e *StatusError) Unwrap() error {
	return e.Kind
}

// ClassifyStatus maps an HTTP status code onto the failure kinds
func ClassifyStatus(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnavailable
	}
}

// NewStatusError builds a StatusError for code with the response body
func NewStatusError(code int, body []byte) *StatusError {
	return &StatusError{
		Kind:       ClassifyStatus(code),
		StatusCode: code,
		Body:       string(body),
	}
}

// Unavailable formats a message wrapped as ErrUnavailable
func Unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnavailable, fmt.Sprintf(format, args...))
}

// KindOf returns a short label for err, used in logs and metrics
func KindOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// IsRetryable reports whether a failed attempt may be repeated.
// Only transport failures and 5xx responses qualify.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrUnavailable)
}
