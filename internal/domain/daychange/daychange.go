// Package daychange defines the contract for computing day-change
// percentages from quote updates.
package daychange

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/multidash/internal/domain/performance"
)

// Option applies a configuration option to the Calculator.
type Option func(*SimpleCalculator)

// WithChangeLimit clamps computed changes to ±limit percent. Feed
// glitches occasionally report prices off by orders of magnitude; a
// limit keeps one bad tick from pinning the movers board.
func WithChangeLimit(limit float64) Option {
	return func(c *SimpleCalculator) {
		if limit > 0 {
			c.limit = limit
		}
	}
}

// Calculator computes a day-change percentage for a ticker.
type Calculator interface {
	// Change computes the percent move from prevClose to price,
	// honoring ctx for cancellation.
	Change(ctx context.Context, ticker string, price, prevClose float64) (float64, error)
}

// SimpleCalculator implements Calculator on top of the performance math.
type SimpleCalculator struct {
	limit float64 // 0 means unbounded
}

// NewSimpleCalculator creates a calculator with configuration options.
func NewSimpleCalculator(opts ...Option) *SimpleCalculator {
	c := &SimpleCalculator{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Change computes the day-change percent for the given quote.
func (c *SimpleCalculator) Change(ctx context.Context, ticker string, price, prevClose float64) (float64, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if ticker == "" {
		return 0, ErrNoTicker
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, ErrBadPrice
	}
	if math.IsNaN(prevClose) || math.IsInf(prevClose, 0) || prevClose <= 0 {
		return 0, ErrBadPrevClose
	}

	res := performance.CalculateSimpleReturn(prevClose, price)
	if !res.Success {
		return 0, fmt.Errorf("%w: %s", ErrNotComputable, res.Err)
	}

	change := res.Percentage
	if c.limit > 0 {
		change = math.Max(-c.limit, math.Min(c.limit, change))
	}
	return change, nil
}
