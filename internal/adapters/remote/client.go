// Package remote provides clients for the upstream dashboard APIs: the
// chess-insight profile service, the investing data service, and the
// live quote stream.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/multidash/pkg/logger"
	"github.com/okian/multidash/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout      = 10 * time.Second
	defaultRetryMax     = 3
	defaultRateBurst    = 5
	defaultRatePerSec   = 10.0
	defaultUserAgent    = "multidash/1.0"
	maxResponseBodySize = 4 << 20 // 4 MiB
)

// Client is the shared HTTP client for remote APIs: base URL handling,
// timeout, token-bucket rate limiting and exponential backoff retries.
type Client struct {
	baseURL    string
	source     string // metrics label, e.g. "chess_insight"
	httpClient *http.Client
	limiter    *RateLimiter
	retryMax   int
	userAgent  string
	logger     logger.Logger
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL, source string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		source:     source,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    NewRateLimiter(defaultRateBurst, defaultRatePerSec),
		retryMax:   defaultRetryMax,
		userAgent:  defaultUserAgent,
		logger:     logger.Get().Named("remote"),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.Named(source)
	return c
}

// getJSON issues a GET against baseURL+path with retries and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			metrics.RecordRemoteRetry(c.source)
			delay := backoffDelay(attempt - 1)
			c.logger.Debug(ctx, "retrying remote request",
				logger.String("url", u),
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := c.doGet(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return lastErr
		}
		// Decode failures and client errors are deterministic; retrying
		// only burns the backoff budget.
		if !retryable(err) {
			break
		}
	}

	metrics.RecordErrorByComponent("remote", "request_failed")
	return lastErr
}

func (c *Client) doGet(ctx context.Context, u string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.RecordRemoteRequest(c.source, outcome)
		metrics.RecordRemoteRequestDuration(c.source, float64(time.Since(start).Milliseconds()))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = strconv.Itoa(resp.StatusCode)
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return &statusError{code: resp.StatusCode, url: u}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	outcome = "ok"
	return nil
}

// statusError carries the upstream status code so the retry loop can
// tell transient failures from deterministic ones. It matches
// ErrBadStatus under errors.Is.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %d from %s", ErrBadStatus, e.code, e.url)
}

func (e *statusError) Is(target error) bool { return target == ErrBadStatus }

// retryable reports whether a failed attempt may succeed on retry.
// Decode failures and client errors other than 429 are deterministic.
func retryable(err error) bool {
	if errors.Is(err, ErrDecode) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= http.StatusInternalServerError || se.code == http.StatusTooManyRequests
	}
	return true
}
