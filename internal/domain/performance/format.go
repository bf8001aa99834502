package performance

import (
	"fmt"
	"strconv"
)

// formatOptions holds tunables for percentage formatting.
type formatOptions struct {
	decimals int
	sign     bool
}

// FormatOption applies a configuration option to FormatPercentage.
type FormatOption func(*formatOptions)

// WithDecimals sets the number of decimal places (default 1).
func WithDecimals(n int) FormatOption {
	return func(o *formatOptions) {
		if n >= 0 {
			o.decimals = n
		}
	}
}

// WithExplicitSign prefixes non-negative percentages with "+".
func WithExplicitSign() FormatOption {
	return func(o *formatOptions) {
		o.sign = true
	}
}

// FormatPercentage renders a percentage for display, e.g. "+12.5%".
// It is a pure formatter with no failure modes.
func FormatPercentage(pct float64, opts ...FormatOption) string {
	o := formatOptions{decimals: 1}
	for _, opt := range opts {
		opt(&o)
	}
	s := strconv.FormatFloat(pct, 'f', o.decimals, 64)
	if o.sign && pct >= 0 {
		return fmt.Sprintf("+%s%%", s)
	}
	return s + "%"
}
