package remote

import (
	"net/http"
	"time"

	"github.com/okian/multidash/pkg/logger"
)

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit configures the token bucket: burst size and refill rate.
func WithRateLimit(burst int, perSecond float64) ClientOption {
	return func(c *Client) {
		if burst > 0 && perSecond > 0 {
			c.limiter = NewRateLimiter(burst, perSecond)
		}
	}
}

// WithRetryMax sets the maximum number of retries after the first attempt.
func WithRetryMax(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithClientLogger sets a custom logger for the client.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
