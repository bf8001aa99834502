// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QuoteQueueSize bounds the in-memory quote-update queue.
	QuoteQueueSize int `koanf:"quote_queue_size"`

	// WorkerCount sets the number of quote-processing workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxMoversLimit caps GET /api/movers?limit.
	MaxMoversLimit int `koanf:"max_movers_limit"`

	// RecentCapacity bounds each user's recently-viewed list.
	RecentCapacity int `koanf:"recent_capacity"`

	// RecentDBPath locates the SQLite file backing recents. Empty keeps
	// recents in memory only.
	RecentDBPath string `koanf:"recent_db_path"`

	// ChessInsightBaseURL and InvestingBaseURL locate the upstream APIs.
	ChessInsightBaseURL string `koanf:"chess_insight_base_url"`
	InvestingBaseURL    string `koanf:"investing_base_url"`

	// QuoteStreamURL is the websocket endpoint for live quotes. Empty
	// disables the stream subscriber.
	QuoteStreamURL string `koanf:"quote_stream_url"`

	// RequestTimeoutMS bounds each upstream request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// RateLimitPerSecond and RateLimitBurst shape upstream API traffic.
	RateLimitPerSecond float64 `koanf:"rate_limit_per_second"`
	RateLimitBurst     int     `koanf:"rate_limit_burst"`

	// RetryMax sets upstream retries after the first attempt.
	RetryMax int `koanf:"retry_max"`

	// CAGRMinimumDays is the holding-period threshold below which CAGR is
	// reported as not meaningful.
	CAGRMinimumDays int `koanf:"cagr_minimum_days"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QuoteQueueSize:      100_000,
		WorkerCount:         runtime.NumCPU() * 10,
		DedupeSize:          500_000,
		MaxMoversLimit:      100,
		RecentCapacity:      20,
		RecentDBPath:        "",
		ChessInsightBaseURL: "https://api.chess-insight.example.com",
		InvestingBaseURL:    "https://api.investing.example.com",
		QuoteStreamURL:      "",
		RequestTimeoutMS:    10_000,
		RateLimitPerSecond:  10,
		RateLimitBurst:      5,
		RetryMax:            3,
		CAGRMinimumDays:     30,
	}
	return c
}
