package demo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/multidash/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete demo feed.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting multidash demo feed",
		logger.String("baseURL", config.BaseURL),
		logger.Int("quotes", config.NumQuotes),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate quotes
	quotes, err := generateQuotes(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("quote generation failed: %w", err)
	}

	// Step 3: Submit quotes concurrently
	if err := submitQuotes(ctx, config, quotes, stats); err != nil {
		return fmt.Errorf("quote submission failed: %w", err)
	}

	// Step 4: Wait for processing
	logger.Get().Info(ctx, "waiting for quotes to be processed")
	time.Sleep(ProcessingDelay)

	// Step 5: Retrieve ranks concurrently
	ranks, err := retrieveRanks(ctx, config, quotes, stats)
	if err != nil {
		return fmt.Errorf("rank retrieval failed: %w", err)
	}

	// Step 6: Get the movers board, both directions
	gainers, err := getMovers(config, "gainers", stats)
	if err != nil {
		return fmt.Errorf("gainers retrieval failed: %w", err)
	}
	losers, err := getMovers(config, "losers", stats)
	if err != nil {
		return fmt.Errorf("losers retrieval failed: %w", err)
	}

	// Step 7: Verify results
	if err := verifyResults(config, ranks, gainers, losers); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 8: Save quotes to file
	if err := saveQuotesToFile(ctx, config, quotes); err != nil {
		logger.Get().Warn(ctx, "failed to save quotes to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "demo feed completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveQuotesToFile saves the generated quotes to a JSON file.
func saveQuotesToFile(ctx context.Context, config *Config, quotes []Quote) error {
	if len(quotes) == 0 {
		return fmt.Errorf("no quotes to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_quotes_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write quotes to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, quote := range quotes {
		jsonData, err := marshalJSON(quote)
		if err != nil {
			return fmt.Errorf("failed to marshal quote %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write quote %d: %w", i, err)
		}

		// Add comma except for last quote
		if i < len(quotes)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "quotes saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final feed statistics.
func displayFinalStats(stats *Stats) {
	var successRate, quotesPerSecond float64

	if stats.QuotesSubmitted > 0 {
		successRate = float64(stats.QuotesSuccessful) / float64(stats.QuotesSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		quotesPerSecond = float64(stats.QuotesSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("quotesGenerated", stats.QuotesGenerated),
		logger.Int("quotesSubmitted", stats.QuotesSubmitted),
		logger.Int("quotesSuccessful", stats.QuotesSuccessful),
		logger.Int("quotesDuplicate", stats.QuotesDuplicate),
		logger.Int("quotesFailed", stats.QuotesFailed),
		logger.Int("ranksRetrieved", stats.RanksRetrieved),
		logger.Int("gainersRetrieved", stats.GainersRetrieved),
		logger.Int("losersRetrieved", stats.LosersRetrieved),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("quotesPerSecond", quotesPerSecond))
}
