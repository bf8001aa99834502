// Package performance computes standardized return metrics for display:
// elapsed periods, simple returns, and compound annual growth rates.
//
// Every function is pure and synchronous. Failures are reported through
// discriminated result values rather than errors or panics; callers branch
// on Success/Valid and surface the message or a placeholder.
package performance

import (
	"fmt"
	"math"
	"time"
)

// Numeric conventions. A year is uniformly 365 days (no leap adjustment),
// values are rounded to 10 decimals before percentages are derived, and
// percentages carry 1 decimal. Rounding at the value level keeps repeated
// calls with the same inputs byte-stable.
const (
	daysPerYear        = 365.0
	defaultMinimumDays = 30.0
	valueDecimals      = 1e10
	percentDecimals    = 1e1
	percentMultiplier  = 100.0
	totalLossPercent   = -100.0
)

// ShortPeriodMode controls how periods under one year are reported.
type ShortPeriodMode int

const (
	// ModeExtrapolate annualizes short periods with the standard CAGR
	// formula. Extrapolating a short window is statistically misleading;
	// the minimum-days guard bounds how short that window may be.
	ModeExtrapolate ShortPeriodMode = iota
	// ModeSimple reports periods under one year as a plain, non-annualized
	// return.
	ModeSimple
)

// Period is the elapsed time between two dates as a fractional year count.
type Period struct {
	Years float64 `json:"years"`
	Days  float64 `json:"days"`
	Valid bool    `json:"is_valid"`
	Err   string  `json:"error,omitempty"`
}

// Result is a discriminated return computation outcome. Value is the
// fractional return (0.2 for +20%), Percentage the display form.
type Result struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Success    bool    `json:"success"`
	Err        string  `json:"error,omitempty"`
}

// Metrics bundles both return measures plus the period they cover, for
// callers that need all three.
type Metrics struct {
	SimpleReturn Result `json:"simple_return"`
	CAGR         Result `json:"cagr"`
	Period       Period `json:"period"`
}

// options holds tunables for CAGR calculations.
type options struct {
	minimumDays float64
	shortMode   ShortPeriodMode
}

// Option applies a configuration option to a CAGR calculation.
type Option func(*options)

// WithMinimumDays sets the minimum observation window in days. Periods
// shorter than this fail rather than annualize into a misleading figure.
func WithMinimumDays(days float64) Option {
	return func(o *options) {
		if days >= 0 {
			o.minimumDays = days
		}
	}
}

// WithShortPeriodMode sets how sub-year periods are reported.
func WithShortPeriodMode(mode ShortPeriodMode) Option {
	return func(o *options) {
		o.shortMode = mode
	}
}

func newOptions(opts ...Option) options {
	o := options{
		minimumDays: defaultMinimumDays,
		shortMode:   ModeExtrapolate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CalculatePeriod computes the elapsed time between start and end as a
// fractional year count (days / 365). The period is invalid when either
// date is missing, when end precedes start, or when the two coincide: a
// rate of return over zero time is undefined.
func CalculatePeriod(start, end time.Time) Period {
	if start.IsZero() || end.IsZero() {
		return Period{Err: "start and end dates are required"}
	}
	days := end.Sub(start).Hours() / 24
	switch {
	case days < 0:
		return Period{Days: days, Err: "end date precedes start date"}
	case days == 0:
		return Period{Err: "zero-length period"}
	}
	return Period{
		Years: days / daysPerYear,
		Days:  days,
		Valid: true,
	}
}

// CalculateSimpleReturn computes (ending - beginning) / beginning.
// Fails when beginning is zero (division by zero) or negative
// (economically meaningless basis).
func CalculateSimpleReturn(beginning, ending float64) Result {
	if failure, ok := checkBeginning(beginning); ok {
		return failure
	}
	return success((ending - beginning) / beginning)
}

// CalculateCAGR computes (ending/beginning)^(1/years) - 1 over the given
// date range. Beyond the simple-return preconditions it fails when the
// observation window is shorter than the configured minimum (default 30
// days). An ending value at or below zero is a total loss and reported as
// exactly -100%. Periods under one year follow the configured
// ShortPeriodMode.
func CalculateCAGR(beginning, ending float64, start, end time.Time, opts ...Option) Result {
	o := newOptions(opts...)

	if failure, ok := checkBeginning(beginning); ok {
		return failure
	}

	period := CalculatePeriod(start, end)
	if !period.Valid {
		return Result{Err: period.Err}
	}
	if period.Days < o.minimumDays {
		return Result{Err: fmt.Sprintf("period of %.0f days is below the %.0f-day minimum", period.Days, o.minimumDays)}
	}

	// Total loss cannot be annualized; report the floor directly.
	if ending <= 0 {
		return Result{
			Value:      totalLossPercent / percentMultiplier,
			Percentage: totalLossPercent,
			Success:    true,
		}
	}

	if period.Years < 1 && o.shortMode == ModeSimple {
		return CalculateSimpleReturn(beginning, ending)
	}

	return success(math.Pow(ending/beginning, 1/period.Years) - 1)
}

// CalculateMetrics returns the simple return, the CAGR, and the computed
// period in one call.
func CalculateMetrics(beginning, ending float64, start, end time.Time, opts ...Option) Metrics {
	return Metrics{
		SimpleReturn: CalculateSimpleReturn(beginning, ending),
		CAGR:         CalculateCAGR(beginning, ending, start, end, opts...),
		Period:       CalculatePeriod(start, end),
	}
}

// IsShortPeriod reports whether the span between start and end is below
// thresholdYears. Invalid periods are not short; they are invalid, and the
// caller should surface that through CalculatePeriod instead.
func IsShortPeriod(start, end time.Time, thresholdYears float64) bool {
	p := CalculatePeriod(start, end)
	return p.Valid && p.Years < thresholdYears
}

// checkBeginning validates the beginning value shared by both return
// calculations. The second return is true when a failure should be
// returned to the caller.
func checkBeginning(beginning float64) (Result, bool) {
	switch {
	case beginning == 0:
		return Result{Err: "beginning value must not be zero"}, true
	case beginning < 0:
		return Result{Err: "beginning value must not be negative"}, true
	}
	return Result{}, false
}

// success builds a successful Result, rounding the value to 10 decimals
// before deriving the 1-decimal percentage.
func success(value float64) Result {
	v := math.Round(value*valueDecimals) / valueDecimals
	return Result{
		Value:      v,
		Percentage: math.Round(v*percentMultiplier*percentDecimals) / percentDecimals,
		Success:    true,
	}
}
