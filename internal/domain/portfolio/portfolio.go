// Package portfolio aggregates holdings into the investing panel's
// portfolio view: exact money totals, per-position weights, and return
// metrics.
//
// Money amounts use decimal arithmetic so that summing many positions
// never accumulates binary float drift; only derived ratios (weights,
// percentages) leave decimal space.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/multidash/internal/domain/performance"
)

// Position is a single holding as reported by the upstream portfolio API.
type Position struct {
	Ticker      string          `json:"ticker"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostBasis   decimal.Decimal `json:"cost_basis"`   // total paid
	MarketValue decimal.Decimal `json:"market_value"` // current worth
	AcquiredAt  time.Time       `json:"acquired_at"`
}

// PositionReport is one row of the aggregated portfolio view.
type PositionReport struct {
	Ticker       string             `json:"ticker"`
	CostBasis    decimal.Decimal    `json:"cost_basis"`
	MarketValue  decimal.Decimal    `json:"market_value"`
	Weight       float64            `json:"weight"` // share of total market value, 0..1
	SimpleReturn performance.Result `json:"simple_return"`
	CAGR         performance.Result `json:"cagr"`
}

// Valuation is the aggregated portfolio payload.
type Valuation struct {
	TotalCost   decimal.Decimal    `json:"total_cost"`
	TotalValue  decimal.Decimal    `json:"total_value"`
	TotalReturn performance.Result `json:"total_return"`
	AsOf        time.Time          `json:"as_of"`
	Positions   []PositionReport   `json:"positions"`
}

// weightDecimals bounds the precision of the weight ratio before it is
// converted to float for display.
const weightDecimals = 6

// Aggregate folds positions into a Valuation as of the given time.
// Positions with an empty ticker are skipped; a portfolio with no usable
// positions yields zero totals and a failed total return (nothing to
// measure a return against).
func Aggregate(positions []Position, asOf time.Time) Valuation {
	v := Valuation{
		TotalCost:  decimal.Zero,
		TotalValue: decimal.Zero,
		AsOf:       asOf,
		Positions:  make([]PositionReport, 0, len(positions)),
	}

	for _, p := range positions {
		if p.Ticker == "" {
			continue
		}
		v.TotalCost = v.TotalCost.Add(p.CostBasis)
		v.TotalValue = v.TotalValue.Add(p.MarketValue)
	}

	for _, p := range positions {
		if p.Ticker == "" {
			continue
		}
		cost, _ := p.CostBasis.Float64()
		value, _ := p.MarketValue.Float64()
		report := PositionReport{
			Ticker:       p.Ticker,
			CostBasis:    p.CostBasis,
			MarketValue:  p.MarketValue,
			Weight:       weightOf(p.MarketValue, v.TotalValue),
			SimpleReturn: performance.CalculateSimpleReturn(cost, value),
			CAGR:         performance.CalculateCAGR(cost, value, p.AcquiredAt, asOf),
		}
		v.Positions = append(v.Positions, report)
	}

	totalCost, _ := v.TotalCost.Float64()
	totalValue, _ := v.TotalValue.Float64()
	v.TotalReturn = performance.CalculateSimpleReturn(totalCost, totalValue)
	return v
}

// weightOf computes value/total as a display float, zero when the
// portfolio has no market value.
func weightOf(value, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	w, _ := value.DivRound(total, weightDecimals).Float64()
	return w
}
