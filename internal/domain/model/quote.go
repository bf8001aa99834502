// Package model contains domain models passed between layers.
package model

import "time"

// QuoteUpdate represents a single market quote observation flowing through
// the ingest queue. Fields mirror the JSON schema for /api/quotes.
type QuoteUpdate struct {
	EventID   string    // unique id for idempotency
	Ticker    string    // instrument symbol, e.g. "AAPL"
	Price     float64   // latest traded price
	PrevClose float64   // previous session close, basis for the day change
	Source    string    // feed that produced the update, e.g. "stream", "poll"
	TS        time.Time // observation timestamp
}

// Quote is the latest known market state for a ticker, as served to panels.
type Quote struct {
	Ticker    string    `json:"ticker"`
	Price     float64   `json:"price"`
	PrevClose float64   `json:"prev_close"`
	ChangePct float64   `json:"change_pct"`
	AsOf      time.Time `json:"as_of"`
}
