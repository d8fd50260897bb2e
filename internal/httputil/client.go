// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by the provider clients:
// a per-provider rate limiter, a circuit breaker, and status checking.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/pdiddy/profile-search/internal/resilience"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 4 << 20

// StatusError reports a provider response other than HTTP 200.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Client sends provider requests. Limiter and Breaker are optional; a nil
// value disables the corresponding guard. Failed requests are not retried.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Limiter   *rate.Limiter
	Breaker   *resilience.Breaker
}

// NewLimiter returns a limiter allowing perSecond requests with a burst of
// at least one. perSecond <= 0 returns nil (no limit).
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// Get fetches rawURL and returns the response body of an HTTP 200 response.
// The rate limiter wait counts against ctx, so a call that cannot get a
// token before its deadline fails without touching the network.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	fetch := func() ([]byte, error) {
		return c.get(ctx, rawURL)
	}
	if c.Breaker == nil {
		return fetch()
	}
	return c.Breaker.Execute(fetch)
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

// IsProviderFailure reports whether err indicates the provider itself is
// unhealthy: transport errors, rate limiting and 5xx responses. Client-side
// statuses such as 404 describe the request, not the provider.
func IsProviderFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	return true
}

// HasStatus reports whether err is a StatusError with the given code.
func HasStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
