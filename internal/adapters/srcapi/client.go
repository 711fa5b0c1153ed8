// Package srcapi is the HTTP client for the speedrun.com v1 API: game
// metadata, verified-run pages, and targeted leaderboard queries. Every call
// applies a bounded retry with a fixed inter-attempt delay; exhausting the
// budget fails the caller's current operation only.
package srcapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/srcwatch/pkg/logger"
	"github.com/okian/srcwatch/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL     = "https://www.speedrun.com/api/v1/"
	defaultPageSize    = 30
	defaultRetries     = 3
	defaultRetryDelay  = 5 * time.Second
	defaultHTTPTimeout = 15 * time.Second
)

// Client talks to the run data source.
type Client struct {
	baseURL    string
	pageSize   int
	retries    int
	retryDelay time.Duration
	http       *http.Client
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the API root, e.g. "https://www.speedrun.com/api/v1/".
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithPageSize caps how many runs a fetch requests.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRetry sets the retry budget and the fixed delay between attempts.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retries = attempts
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		pageSize:   defaultPageSize,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		http:       &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches url and decodes the body into v, retrying up to the
// configured budget with the fixed delay between attempts.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		if attempt > 0 {
			metrics.RecordSourceRetry()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		lastErr = c.getJSONOnce(ctx, url, v)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if c.logger != nil {
			c.logger.Warn(ctx, "source request failed",
				logger.String("url", url),
				logger.Int("attempt", attempt+1),
				logger.Error(lastErr),
			)
		}
	}
	metrics.RecordSourceError()
	return fmt.Errorf("%w: %s: %v", ErrRetriesExhausted, url, lastErr)
}

func (c *Client) getJSONOnce(ctx context.Context, url string, v any) error {
	metrics.RecordSourceRequest()
	start := time.Now()
	defer func() {
		metrics.RecordSourceLatency(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
