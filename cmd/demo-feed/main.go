package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/multidash/internal/demo"
)

// Default configuration constants.
const (
	defaultNumQuotes   = 10000
	defaultTopN        = 20
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultFeedTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numQuotes  = flag.Int("quotes", defaultNumQuotes, "Number of quote updates to generate and submit")
		topN       = flag.Int("top", defaultTopN, "Number of movers entries to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated quotes (default: generated_quotes_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for feed output (default: demo_feed_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		demo.ShowHelp()
		return
	}

	// Setup logging
	if err := demo.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultFeedTimeout)
	defer cancel()

	// Create feed configuration
	config := &demo.Config{
		BaseURL:    *baseURL,
		NumQuotes:  *numQuotes,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the feed
	if err := demo.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Demo feed failed: " + err.Error() + "\n")
		return
	}
}
