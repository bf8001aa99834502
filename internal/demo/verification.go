package demo

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults verifies the consistency of ranks and the movers board.
func verifyResults(config *Config, ranks, gainers, losers []Entry) error {
	log.Println("🔍 Verifying results...")

	if len(ranks) == 0 {
		return fmt.Errorf("no ranks to verify")
	}

	// Sort ranks by change (descending) to get the expected gainers order
	sortedRanks := make([]Entry, len(ranks))
	copy(sortedRanks, ranks)
	sort.Slice(sortedRanks, func(i, j int) bool {
		return sortedRanks[i].ChangePct > sortedRanks[j].ChangePct
	})

	// Verify board consistency if we have movers data
	if len(gainers) > 0 {
		if err := verifyGainersConsistency(sortedRanks, gainers); err != nil {
			log.Printf("⚠️  Gainers consistency warning: %v", err)
		} else {
			log.Println("✅ Gainers consistency verified")
		}
	}

	if len(losers) > 0 {
		if err := verifyLosersConsistency(sortedRanks, losers); err != nil {
			log.Printf("⚠️  Losers consistency warning: %v", err)
		} else {
			log.Println("✅ Losers consistency verified")
		}
	}

	// Display top movers
	displayTopMovers(sortedRanks, gainers, losers, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyGainersConsistency checks if the gainers list matches the top ranks.
func verifyGainersConsistency(sortedRanks, gainers []Entry) error {
	topRank := sortedRanks[0]
	topGainer := gainers[0]

	if topRank.Ticker != topGainer.Ticker {
		return fmt.Errorf("top gainer (%s) does not match top ranked ticker (%s)",
			topGainer.Ticker, topRank.Ticker)
	}

	if topRank.ChangePct != topGainer.ChangePct {
		return fmt.Errorf("top gainer change (%.3f) does not match top ranked change (%.3f)",
			topGainer.ChangePct, topRank.ChangePct)
	}

	// Check if gainers are properly sorted
	for i := 1; i < len(gainers); i++ {
		if gainers[i].ChangePct > gainers[i-1].ChangePct {
			return fmt.Errorf("gainers not properly sorted: entry %d has larger change than entry %d",
				i, i-1)
		}
	}

	return nil
}

// verifyLosersConsistency checks if the losers list matches the bottom ranks.
func verifyLosersConsistency(sortedRanks, losers []Entry) error {
	bottomRank := sortedRanks[len(sortedRanks)-1]
	topLoser := losers[0]

	if bottomRank.Ticker != topLoser.Ticker {
		return fmt.Errorf("biggest loser (%s) does not match bottom ranked ticker (%s)",
			topLoser.Ticker, bottomRank.Ticker)
	}

	// Check if losers are properly sorted, smallest change first
	for i := 1; i < len(losers); i++ {
		if losers[i].ChangePct < losers[i-1].ChangePct {
			return fmt.Errorf("losers not properly sorted: entry %d has smaller change than entry %d",
				i, i-1)
		}
	}

	return nil
}

// displayTopMovers shows the top movers from ranks and the board.
func displayTopMovers(sortedRanks, gainers, losers []Entry, verbose bool) {
	topN := 10
	if len(sortedRanks) < topN {
		topN = len(sortedRanks)
	}

	log.Printf("🏆 Top %d by rank queries:", topN)
	for i := 0; i < topN; i++ {
		entry := sortedRanks[i]
		log.Printf("   %d. %s - Change: %+.2f%%", i+1, entry.Ticker, entry.ChangePct)
	}

	if len(gainers) > 0 {
		gainersTopN := topN
		if len(gainers) < gainersTopN {
			gainersTopN = len(gainers)
		}

		log.Printf("🥇 Top %d gainers from the board:", gainersTopN)
		for i := 0; i < gainersTopN; i++ {
			entry := gainers[i]
			log.Printf("   %d. %s - Change: %+.2f%%", i+1, entry.Ticker, entry.ChangePct)
		}
	}

	if len(losers) > 0 {
		losersTopN := topN
		if len(losers) < losersTopN {
			losersTopN = len(losers)
		}

		log.Printf("📉 Top %d losers from the board:", losersTopN)
		for i := 0; i < losersTopN; i++ {
			entry := losers[i]
			log.Printf("   %d. %s - Change: %+.2f%%", i+1, entry.Ticker, entry.ChangePct)
		}
	}

	if verbose {
		// Show some statistics
		if len(sortedRanks) > 0 {
			avgChange := calculateAverageChange(sortedRanks)
			maxChange := sortedRanks[0].ChangePct
			minChange := sortedRanks[len(sortedRanks)-1].ChangePct

			log.Printf(`📊 Change statistics:
   Average: %+.2f%%
   Maximum: %+.2f%%
   Minimum: %+.2f%%
`, avgChange, maxChange, minChange)
		}
	}
}

// calculateAverageChange calculates the average day change from ranks.
func calculateAverageChange(ranks []Entry) float64 {
	if len(ranks) == 0 {
		return 0
	}

	sum := 0.0
	for _, entry := range ranks {
		sum += entry.ChangePct
	}

	return sum / float64(len(ranks))
}
