package demo

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/multidash/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "demo_feed_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the demo feed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Multidash Demo Feed
===================

A concurrent tool that fills the dashboard with synthetic quote updates
and verifies the movers board against individual rank queries.

Usage:
  go run cmd/demo-feed/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -quotes int
        Number of quote updates to generate and submit (default 10000)
  -top int
        Number of movers entries to fetch (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated quotes (default: generated_quotes_TIMESTAMP.json)
  -log string
        Log file for feed output (default: demo_feed_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Feed with default settings
  go run cmd/demo-feed/main.go

  # Feed with custom parameters
  go run cmd/demo-feed/main.go -quotes 50000 -workers 16 -url http://localhost:8080

  # Feed with verbose output
  go run cmd/demo-feed/main.go -verbose -quotes 10000

  # Feed with custom log file
  go run cmd/demo-feed/main.go -quotes 50000 -log my_feed.log
`)
}
