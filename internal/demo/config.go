package demo

import "time"

// Config holds configuration for the demo quote feed
type Config struct {
	BaseURL    string        // Base URL of the service
	NumQuotes  int           // Number of quote updates to generate
	TopN       int           // Number of movers entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for quotes
	LogFile    string        // Log file for feed output
	Verbose    bool          // Enable verbose logging
}

// Quote represents a quote update to be submitted
type Quote struct {
	EventID   string  `json:"event_id"`
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	PrevClose float64 `json:"prev_close"`
	Source    string  `json:"source"`
	TS        string  `json:"ts"`
}

// Entry represents a movers board entry
type Entry struct {
	Rank      int     `json:"rank"`
	Ticker    string  `json:"ticker"`
	ChangePct float64 `json:"change_pct"`
}

// AckResponse represents the response from quote submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds feed statistics
type Stats struct {
	QuotesGenerated  int
	QuotesSubmitted  int
	QuotesSuccessful int
	QuotesDuplicate  int
	QuotesFailed     int
	RanksRetrieved   int
	GainersRetrieved int
	LosersRetrieved  int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
