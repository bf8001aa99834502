package demo

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/okian/multidash/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 8
)

// Constants for day-change generation ranges, in percent.
const (
	steadyMin     = -1.0
	steadyRange   = 2.0
	volatileMin   = -8.0
	volatileRange = 16.0
	soaringMin    = 5.0
	soaringRange  = 10.0
	crashingMin   = -15.0
	crashingRange = 10.0
	driftMin      = -3.0
	driftRange    = 6.0
)

// Constants for movement profile cases.
const (
	caseSteady   = 0
	caseVolatile = 1
	caseSoaring  = 2
	caseCrashing = 3
)

// Constants for previous-close generation.
const (
	prevCloseMin   = 5.0
	prevCloseRange = 495.0
)

// tickerUniverse is the pool of symbols the demo feed draws from.
var tickerUniverse = []string{
	"AAPL", "MSFT", "NVDA", "AMZN", "GOOG", "META", "TSLA", "AMD",
	"INTC", "NFLX", "CRM", "ORCL", "ADBE", "AVGO", "QCOM", "TXN",
	"IBM", "UBER", "SHOP", "SQ", "PLTR", "SNOW", "COIN", "ABNB",
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateQuotes creates the specified number of quote updates across the
// ticker universe.
func generateQuotes(ctx context.Context, config *Config, stats *Stats) ([]Quote, error) {
	logger.Get().Info(ctx, "generating quote updates", logger.Int("numQuotes", config.NumQuotes))

	quotes := make([]Quote, config.NumQuotes)

	// Each ticker keeps one previous close so repeated updates for the
	// same symbol stay plausible.
	prevCloses := make(map[string]float64, len(tickerUniverse))
	for _, ticker := range tickerUniverse {
		prevCloses[ticker] = prevCloseMin + getRandomFloat()*prevCloseRange
	}

	// Generate quotes concurrently
	type quoteResult struct {
		index int
		quote Quote
		err   error
	}

	resultChan := make(chan quoteResult, config.NumQuotes)

	// Use worker pool for quote generation
	workerCount := minInt(config.Workers, config.NumQuotes)
	quotesPerWorker := config.NumQuotes / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * quotesPerWorker
		end := start + quotesPerWorker
		if worker == workerCount-1 {
			end = config.NumQuotes // Last worker gets remaining quotes
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- quoteResult{index: i, err: ctx.Err()}
					return
				default:
					ticker := tickerUniverse[i%len(tickerUniverse)]
					quote := generateSingleQuote(ticker, prevCloses[ticker])
					resultChan <- quoteResult{index: i, quote: quote, err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumQuotes; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during quote generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate quote %d: %w", result.index, result.err)
			}
			quotes[result.index] = result.quote
		}
	}

	stats.QuotesGenerated = len(quotes)
	logger.Get().Info(ctx, "generated quote updates successfully", logger.Int("count", len(quotes)))

	return quotes, nil
}

// generateSingleQuote creates a single quote update for the given ticker.
func generateSingleQuote(ticker string, prevClose float64) Quote {
	changePct := generateDayChange()
	price := prevClose * (1 + changePct/PercentageMultiplier)

	return Quote{
		EventID:   uuid.New().String(),
		Ticker:    ticker,
		Price:     price,
		PrevClose: prevClose,
		Source:    "demo",
		TS:        time.Now().UTC().Format(time.RFC3339),
	}
}

// generateDayChange draws a day-change percentage from a mixed set of
// movement profiles so the board shows gainers, losers and flat names.
func generateDayChange() float64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch randNum.Int64() {
	case caseSteady:
		// Quiet names (-1% .. +1%) - most of the market
		return steadyMin + getRandomFloat()*steadyRange
	case caseVolatile:
		// Volatile names (-8% .. +8%)
		return volatileMin + getRandomFloat()*volatileRange
	case caseSoaring:
		// Soaring names (+5% .. +15%) - rare
		return soaringMin + getRandomFloat()*soaringRange
	case caseCrashing:
		// Crashing names (-15% .. -5%) - rare
		return crashingMin + getRandomFloat()*crashingRange
	default:
		// Mild drift (-3% .. +3%)
		return driftMin + getRandomFloat()*driftRange
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
