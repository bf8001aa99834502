// Package types contains common types used across the application
package types

import "time"

// Entry represents a movers board row as exposed over the API
type Entry struct {
	Rank      int       `json:"rank"`
	Ticker    string    `json:"ticker"`
	ChangePct float64   `json:"change_pct"`
	Price     float64   `json:"price,omitempty"`
	PrevClose float64   `json:"prev_close,omitempty"`
	AsOf      time.Time `json:"as_of,omitzero"`
}
