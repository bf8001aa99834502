package model

import "time"

// View models deserialized from the upstream dashboard API. These are
// transient: fetched per panel, held for the lifetime of a screen, never
// persisted. JSON tags match the upstream field names.

// FideProfile is the chess panel payload for a single player.
type FideProfile struct {
	FideID   string        `json:"fide_id"`
	Name     string        `json:"name"`
	Country  string        `json:"country"`
	Title    string        `json:"title,omitempty"`
	Standard int           `json:"standard_rating"`
	Rapid    int           `json:"rapid_rating"`
	Blitz    int           `json:"blitz_rating"`
	History  []RatingPoint `json:"history,omitempty"`
}

// RatingPoint is one month of a player's published rating history.
type RatingPoint struct {
	Period   string `json:"period"` // "2024-01"
	Standard int    `json:"standard"`
	Rapid    int    `json:"rapid"`
	Blitz    int    `json:"blitz"`
}

// Financials is the investing panel's fundamentals payload.
type Financials struct {
	Ticker      string            `json:"ticker"`
	Currency    string            `json:"currency"`
	Periods     []string          `json:"periods"` // fiscal years, oldest first
	Revenue     []float64         `json:"revenue"`
	NetIncome   []float64         `json:"net_income"`
	FreeCF      []float64         `json:"free_cash_flow"`
	Margins     map[string]string `json:"margins,omitempty"`
	RetrievedAt time.Time         `json:"retrieved_at"`
}

// MarketCap is a point-in-time market capitalization reading.
type MarketCap struct {
	Ticker   string    `json:"ticker"`
	Value    float64   `json:"value"`
	Currency string    `json:"currency"`
	AsOf     time.Time `json:"as_of"`
}

// PricePoint is one observation in a price history series.
type PricePoint struct {
	Date  string  `json:"date"` // "2024-01-02"
	Close float64 `json:"close"`
}

// PriceHistory is the chart-ready price series for a ticker.
type PriceHistory struct {
	Ticker string       `json:"ticker"`
	Range  string       `json:"range,omitempty"`
	Points []PricePoint `json:"points"`
}

// NewsItem is a single aggregated headline for the news panel.
type NewsItem struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}
