// Package http is the outbound HTTP client used for upstream APIs.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commerceintel/admin-service/internal/http/ratelimit"
)

const (
	userAgent = "CommerceIntel-AdminService/1.0"

	// maxBodyBytes caps how much of an upstream response is buffered.
	maxBodyBytes = 32 << 20
)

// ErrBodyTooLarge is returned by GetBytes when a response exceeds maxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// Client sends throttled requests and retries transient upstream failures.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.RateLimiter
	config      ratelimit.Config
	headers     http.Header
}

// NewClient builds a client. headers are added to every request.
func NewClient(config ratelimit.Config, timeout time.Duration, headers http.Header) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: ratelimit.NewRateLimiter(config),
		config:      config,
		headers:     headers.Clone(),
	}
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url)
}

// attempt is the outcome of a single round trip.
type attempt struct {
	resp   *http.Response
	status int
	err    error
	fatal  error
	wait   time.Duration
}

// Do sends a bodiless request. Transport errors, 429 and 5xx are retried up to
// MaxRetries times; any other non-2xx status fails at once. Exhausted or
// non-retryable failures are reported as *ratelimit.FetchRetryError.
func (c *Client) Do(ctx context.Context, method, url string) (*http.Response, error) {
	var last attempt
	tries := 0

	for tries <= c.config.MaxRetries {
		if err := c.rateLimiter.Throttle(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		tries++
		last = c.roundTrip(ctx, method, url, tries-1)
		switch {
		case last.resp != nil:
			return last.resp, nil
		case last.fatal != nil:
			return nil, last.fatal
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case last.err == nil && !ratelimit.IsRetryableStatus(last.status):
			return nil, &ratelimit.FetchRetryError{URL: url, Attempts: tries, LastStatus: last.status}
		}

		if tries > c.config.MaxRetries {
			break
		}
		if err := ratelimit.Sleep(ctx, last.wait); err != nil {
			return nil, err
		}
	}

	return nil, &ratelimit.FetchRetryError{
		URL:        url,
		Attempts:   tries,
		LastStatus: last.status,
		LastError:  last.err,
	}
}

func (c *Client) roundTrip(ctx context.Context, method, url string, n int) attempt {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return attempt{fatal: fmt.Errorf("error building request: %w", err)}
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attempt{err: err, wait: ratelimit.CalculateBackoff(n, c.config)}
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return attempt{resp: resp, status: resp.StatusCode}
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	resp.Body.Close()

	out := attempt{status: resp.StatusCode}
	if resp.StatusCode == http.StatusTooManyRequests {
		out.wait = ratelimit.CalculateRateLimitBackoff(n, c.config, resp.Header.Get("Retry-After"))
	} else {
		out.wait = ratelimit.CalculateBackoff(n, c.config)
	}
	return out
}

// GetBytes sends a GET request and returns the whole response body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%s: %w", url, ErrBodyTooLarge)
	}
	return data, nil
}

// Config returns the retry and throttling settings.
func (c *Client) Config() ratelimit.Config {
	return c.config
}
