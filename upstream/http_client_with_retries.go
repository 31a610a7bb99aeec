package upstream

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"time"
)

// IHttpStatusHandler is an interface for handling HTTP request statuses
type IHttpStatusHandler interface {
	// OnRequest handles a request with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}

// RetryOptions configures retry behavior for HTTP requests
type RetryOptions struct {
	MaxRetries        int
	BaseBackoff       time.Duration
	LogPrefix         string
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
}

// DefaultRetryOptions returns default retry options
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:        1,
		BaseBackoff:       time.Second,
		LogPrefix:         "HTTP",
		ConnectionTimeout: 5 * time.Second,
		RequestTimeout:    8 * time.Second,
	}
}

// HTTPClientWithRetries wraps an HTTP Client with retry capabilities
type HTTPClientWithRetries struct {
	Client         *http.Client
	Opts           RetryOptions
	StatusHandler  IHttpStatusHandler
	LimiterManager IRateLimiterManager
}

// NewHTTPClientWithRetries creates a new HTTP Client with retry capabilities
func NewHTTPClientWithRetries(opts RetryOptions, handler IHttpStatusHandler, limiterManager IRateLimiterManager) *HTTPClientWithRetries {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}

	client := &http.Client{
		Timeout: opts.RequestTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		},
	}

	return &HTTPClientWithRetries{
		Client:         client,
		Opts:           opts,
		StatusHandler:  handler,
		LimiterManager: limiterManager,
	}
}

// ExecuteRequest executes an HTTP request and returns the body of a 200 response.
// Failures are typed with the kinds in errors.go. Rate limit, auth and not
// found responses are returned on the first attempt.
func (c *HTTPClientWithRetries) ExecuteRequest(req *http.Request) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.Opts.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("%s: Retry %d/%d after error: %v",
				c.Opts.LogPrefix, attempt, c.Opts.MaxRetries-1, lastErr)

			c.onRetry()

			backoffDuration := calculateBackoffWithJitter(c.Opts.BaseBackoff, attempt)
			select {
			case <-req.Context().Done():
				return nil, fmt.Errorf("%w: %v (last error: %v)", ErrUnavailable, req.Context().Err(), lastErr)
			case <-time.After(backoffDuration):
			}
		}

		body, err := c.do(req)
		c.onRequest(KindOf(err))
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}

	if c.Opts.MaxRetries > 1 {
		return nil, fmt.Errorf("all %d attempts failed, last error: %w", c.Opts.MaxRetries, lastErr)
	}
	return nil, lastErr
}

func (c *HTTPClientWithRetries) do(req *http.Request) ([]byte, error) {
	// Rate limit per API key before executing the request
	if c.LimiterManager != nil {
		if limiter := c.LimiterManager.GetLimiterForRequest(req); limiter != nil {
			if err := limiter.Wait(req.Context()); err != nil {
				return nil, fmt.Errorf("%w: rate limiter wait failed: %v", ErrRateLimited, err)
			}
		}
	}

	requestStart := time.Now()
	resp, err := c.Client.Do(req)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if req.Context().Err() == context.Canceled {
			return nil, fmt.Errorf("request canceled: %w", context.Canceled)
		}
		return nil, Unavailable("request failed after %.2fs: %v", requestDuration.Seconds(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Unavailable("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		statusErr := NewStatusError(resp.StatusCode, body)
		if resp.StatusCode == http.StatusTooManyRequests {
			log.Printf("%s: rate limit exceeded, retry after %q", c.Opts.LogPrefix, resp.Header.Get("Retry-After"))
		}
		return nil, statusErr
	}

	return body, nil
}

func (c *HTTPClientWithRetries) onRequest(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}

func (c *HTTPClientWithRetries) onRetry() {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRetry()
	}
}

// calculateBackoffWithJitter calculates backoff duration with jitter for retries
func calculateBackoffWithJitter(baseBackoff time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseBackoff <= 0 {
		return baseBackoff
	}

	multiplier := uint(1) << uint(attempt-1)
	backoff := time.Duration(float64(baseBackoff) * float64(multiplier))
	if backoff < 2 {
		return backoff
	}
	jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
	return backoff + jitter
}
