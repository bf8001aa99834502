// Package repository defines the movers board interface and errors.
package repository

import (
	"context"
	"time"
)

// Entry represents a movers board row.
type Entry struct {
	Rank      int
	Ticker    string
	ChangePct float64
	Price     float64
	PrevClose float64
	Source    string
	AsOf      time.Time
}

// Board provides read/write access to the ranked day-change state.
type Board interface {
	// Update replaces the ticker's day-change percentage. Unlike a
	// best-score board, movers go down as well as up, so every update
	// is applied. Returns true when the ticker was not tracked before.
	Update(ctx context.Context, ticker string, changePct float64) (bool, error)
	// UpdateWithQuote replaces the ticker's day-change and stores the
	// quote details alongside it.
	UpdateWithQuote(ctx context.Context, ticker string, changePct float64, price, prevClose float64, source string, asOf time.Time) (bool, error)

	// Rank returns the current rank and change for a ticker.
	// Returns ErrNotFound if the ticker is unknown.
	Rank(ctx context.Context, ticker string) (Entry, error)

	// TopN returns the top-N gainers ordered by change desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// BottomN returns the bottom-N losers ordered by change asc.
	BottomN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of tickers tracked on the board.
	Count(ctx context.Context) int
}
