// Package httpds downloads a rejection-log export over HTTP with retry and
// exponential backoff. Transport errors, 429 and 5xx are retried; any other
// status is final.
package httpds

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStatus reports a final non-2xx response.
var ErrStatus = errors.New("httpds: unexpected status")

// Config configures the client. Zero values mean: 30s timeout, no retries,
// 200ms initial backoff capped at 5s.
type Config struct {
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	InsecureSkipVerify bool

	// Header is sent with every request.
	Header http.Header
	// Transport overrides the default transport, mostly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	header         http.Header
}

// NewClient applies defaults and builds the transport.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec // explicitly configurable
		}
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		header:         cfg.Header.Clone(),
	}
}

// Get fetches url and returns the response of the first non-retryable
// attempt. A final non-2xx status is returned as ErrStatus with the body
// closed. The caller closes the body of a successful response.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, backoffDuration(c.initialBackoff, attempt-1, c.maxBackoff)); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}
		for k, vs := range c.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if isRetryableStatus(resp.StatusCode) {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("%w: %d from %s (retryable)", ErrStatus, resp.StatusCode, url)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
		}
		return resp, nil
	}
	return nil, lastErr
}

// Source serves the body of url as a datasource.
type Source struct {
	client *Client
	url    string
}

// NewSource binds a client to a url.
func NewSource(c *Client, url string) *Source { return &Source{client: c, url: url} }

// Open downloads the export; the returned body streams the CSV.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// backoffDuration returns initial*2^retry clamped to max.
func backoffDuration(initial time.Duration, retry int, max time.Duration) time.Duration {
	if retry < 0 {
		retry = 0
	}
	if retry > 30 {
		return max
	}
	d := initial << retry
	if d > max || d <= 0 {
		return max
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
