package demo

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveRanks retrieves board ranks for all submitted tickers concurrently.
func retrieveRanks(ctx context.Context, config *Config, quotes []Quote, stats *Stats) ([]Entry, error) {
	// Collect unique tickers; the feed repeats symbols
	seen := make(map[string]bool)
	tickers := make([]string, 0, len(quotes))
	for _, quote := range quotes {
		if !seen[quote.Ticker] {
			seen[quote.Ticker] = true
			tickers = append(tickers, quote.Ticker)
		}
	}

	log.Printf("🏆 Retrieving ranks for %d tickers with %d workers...", len(tickers), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage
	ranks := make([]Entry, len(tickers))
	var (
		retrieved int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	tickerChan := make(chan int, config.Workers*WorkerChannelMultiplier) // Send indices instead of symbols
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for index := range tickerChan {
				select {
				case <-ctx.Done():
					return
				default:
					ticker := tickers[index]
					entry, err := retrieveSingleRank(client, config.BaseURL, ticker)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get rank for %s: %v", ticker, err)
						}
					} else {
						ranks[index] = entry
						atomic.AddInt64(&retrieved, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&retrieved) + atomic.LoadInt64(&failed)
						ret := atomic.LoadInt64(&retrieved)
						fail := atomic.LoadInt64(&failed)

						log.Printf("🏆 Ranks: %d/%d retrieved (success: %d, failed: %d)",
							total, len(tickers), ret, fail)
					}
				}
			}
		}(i)
	}

	// Send ticker indices to workers
	go func() {
		defer close(tickerChan)
		for i := range tickers {
			select {
			case <-ctx.Done():
				return
			case tickerChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Filter out empty entries (failed retrievals)
	validRanks := make([]Entry, 0, len(ranks))
	for _, entry := range ranks {
		if entry.Ticker != "" { // Empty Ticker indicates failed retrieval
			validRanks = append(validRanks, entry)
		}
	}

	// Update stats
	stats.RanksRetrieved = len(validRanks)

	log.Printf(`✅ Rank retrieval completed:
   Retrieved: %d
   Failed: %d
`, len(validRanks), int(atomic.LoadInt64(&failed)))

	return validRanks, nil
}

// retrieveSingleRank retrieves the board entry for a single ticker.
func retrieveSingleRank(client *HTTPClient, baseURL, ticker string) (Entry, error) {
	url := fmt.Sprintf("%s/api/rank/%s", baseURL, ticker)

	resp, err := client.Get(url)
	if err != nil {
		return Entry{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return Entry{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := unmarshalJSON(body, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return entry, nil
}

// getMovers retrieves the top N movers in the given direction.
func getMovers(config *Config, direction string, stats *Stats) ([]Entry, error) {
	log.Printf("🥇 Getting top %d %s...", config.TopN, direction)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/api/movers?limit=%d&direction=%s", config.BaseURL, config.TopN, direction)

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var movers []Entry
	if err := unmarshalJSON(body, &movers); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	switch direction {
	case "gainers":
		stats.GainersRetrieved = len(movers)
	case "losers":
		stats.LosersRetrieved = len(movers)
	}
	log.Printf("✅ Retrieved %d %s", len(movers), direction)

	return movers, nil
}
