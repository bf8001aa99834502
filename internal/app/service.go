// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	quotequeue "github.com/okian/multidash/internal/adapters/mq/queue"
	workerpool "github.com/okian/multidash/internal/adapters/mq/worker"
	"github.com/okian/multidash/internal/adapters/remote"
	"github.com/okian/multidash/internal/adapters/repository"
	"github.com/okian/multidash/internal/domain/daychange"
	"github.com/okian/multidash/internal/domain/dedupe"
	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/internal/domain/recent"
	"github.com/okian/multidash/internal/domain/types"
	"github.com/okian/multidash/pkg/logger"
	"github.com/okian/multidash/pkg/metrics"
)

// Service implements the API dependencies for the dashboard data system.
type Service struct {
	mu sync.RWMutex

	// Core components
	board      repository.Board
	deduper    dedupe.Deduper
	quoteQueue quotequeue.Queue
	calculator daychange.Calculator
	workerPool *workerpool.Pool
	recents    recent.Tracker
	chess      *remote.ChessInsight
	investing  *remote.Investing
	stream     *remote.QuoteStream

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	recentCapacity int
	recentDBPath   string
	chessBaseURL   string
	investBaseURL  string
	streamURL      string
	requestTimeout time.Duration
	rateLimitBurst int
	ratePerSecond  float64
	retryMax       int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the quote queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRecentCapacity sets the per-user cap on remembered views.
func WithRecentCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentCapacity = n
		}
	}
}

// WithRecentDBPath sets the SQLite file backing the recently-viewed
// tracker. An empty path keeps views in memory only.
func WithRecentDBPath(path string) Option {
	return func(s *Service) {
		s.recentDBPath = path
	}
}

// WithChessInsightURL sets the upstream chess API base URL.
func WithChessInsightURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.chessBaseURL = baseURL
		}
	}
}

// WithInvestingURL sets the upstream investing API base URL.
func WithInvestingURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.investBaseURL = baseURL
		}
	}
}

// WithQuoteStreamURL sets the websocket quote feed URL. An empty URL
// disables the stream and quotes arrive over HTTP only.
func WithQuoteStreamURL(url string) Option {
	return func(s *Service) {
		s.streamURL = url
	}
}

// WithRequestTimeout sets the per-request timeout for upstream calls.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithRateLimit sets the upstream rate limit (burst tokens, refill/sec).
func WithRateLimit(burst int, perSecond float64) Option {
	return func(s *Service) {
		if burst > 0 && perSecond > 0 {
			s.rateLimitBurst = burst
			s.ratePerSecond = perSecond
		}
	}
}

// WithRetryMax sets the retry ceiling for upstream requests.
func WithRetryMax(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.retryMax = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      100000,
		dedupeSize:     50000,
		recentCapacity: 20,
		chessBaseURL:   "https://api.chess-insight.example.com",
		investBaseURL:  "https://api.investing.example.com",
		requestTimeout: 10 * time.Second,
		rateLimitBurst: 5,
		ratePerSecond:  10,
		retryMax:       3,
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	// Initialize components
	s.board = repository.NewTreapBoard(ctx)
	s.logger.Info(ctx, "using treap movers board")
	s.deduper = dedupe.NewRingDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.quoteQueue = quotequeue.NewInMemoryQueue(
		quotequeue.WithCapacity(s.queueSize),
		quotequeue.WithBufferSize(s.queueSize),
	)
	s.calculator = daychange.NewSimpleCalculator()

	if s.recentDBPath != "" {
		store, err := repository.NewRecentStore(s.recentDBPath,
			repository.WithRecentCapacity(s.recentCapacity),
		)
		if err != nil {
			return err
		}
		s.recents = store
		s.logger.Info(ctx, "using sqlite recent store",
			logger.String("path", s.recentDBPath),
		)
	} else {
		s.recents = recent.NewMemoryTracker(
			recent.WithCapacity(s.recentCapacity),
		)
	}

	clientOpts := []remote.ClientOption{
		remote.WithTimeout(s.requestTimeout),
		remote.WithRateLimit(s.rateLimitBurst, s.ratePerSecond),
		remote.WithRetryMax(s.retryMax),
	}
	s.chess = remote.NewChessInsight(s.chessBaseURL, clientOpts...)
	s.investing = remote.NewInvesting(s.investBaseURL, clientOpts...)

	// Create and start worker pool
	s.workerPool = workerpool.NewPool(s.workerCount, s.quoteQueue, s.calculator, s.board)
	s.workerPool.Start(ctx)

	// Optional websocket feed; deduped through the same ring as HTTP ingest
	if s.streamURL != "" {
		s.stream = remote.NewQuoteStream(s.streamURL, &streamSink{svc: s})
		s.stream.Start(ctx)
		s.logger.Info(ctx, "quote stream started",
			logger.String("url", s.streamURL),
		)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	// Stop the stream first so nothing feeds the queue
	if s.stream != nil {
		s.stream.Stop()
	}

	// Stop worker pool
	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	// Close movers board
	if s.board != nil {
		if closer, ok := s.board.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	// Close queue
	if q, ok := s.quoteQueue.(*quotequeue.InMemoryQueue); ok {
		_ = q.Close()
	}

	// Close recent store
	if closer, ok := s.recents.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	// Signal cleanup loop to stop
	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it if not.
// Returns true if the event was already seen, false if it was newly recorded.
// This is the ONLY method for deduplication - thread-safe and atomic.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordQuoteDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a quote update for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, u model.QuoteUpdate) bool {
	s.logger.Debug(ctx, "enqueueing quote update",
		logger.String("eventID", u.EventID),
		logger.String("ticker", u.Ticker),
		logger.Float64("price", u.Price),
		logger.Float64("prevClose", u.PrevClose),
	)

	success := s.quoteQueue.Enqueue(ctx, u)
	if success {
		metrics.RecordQuoteProcessed()
		metrics.UpdateQueueSize(s.quoteQueue.Len(ctx))
	}
	return success
}

// streamSink feeds websocket quote frames through the same dedupe ring
// as HTTP ingest before they reach the queue.
type streamSink struct {
	svc *Service
}

func (k *streamSink) Enqueue(ctx context.Context, u model.QuoteUpdate) bool {
	if k.svc.SeenAndRecord(ctx, u.EventID) {
		return true
	}
	if !k.svc.Enqueue(ctx, u) {
		k.svc.Unrecord(ctx, u.EventID)
		return false
	}
	return true
}

// TopN returns the top N gainers from the movers board.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.board.TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	return toAPIEntries(entries), nil
}

// BottomN returns the bottom N losers from the movers board.
func (s *Service) BottomN(ctx context.Context, n int) ([]types.Entry, error) {
	entries, err := s.board.BottomN(ctx, n)
	if err != nil {
		return nil, err
	}
	return toAPIEntries(entries), nil
}

// Rank returns the rank and day change for a given ticker.
func (s *Service) Rank(ctx context.Context, ticker string) (types.Entry, error) {
	entry, err := s.board.Rank(ctx, ticker)
	if err != nil {
		return types.Entry{}, err
	}
	return toAPIEntry(entry), nil
}

func toAPIEntry(e repository.Entry) types.Entry {
	return types.Entry{
		Rank:      e.Rank,
		Ticker:    e.Ticker,
		ChangePct: e.ChangePct,
		Price:     e.Price,
		PrevClose: e.PrevClose,
		AsOf:      e.AsOf,
	}
}

func toAPIEntries(entries []repository.Entry) []types.Entry {
	apiEntries := make([]types.Entry, len(entries))
	for i, entry := range entries {
		apiEntries[i] = toAPIEntry(entry)
	}
	return apiEntries
}

// ChessProfile proxies the chess panel payload from the upstream API.
func (s *Service) ChessProfile(ctx context.Context, fideID string) (model.FideProfile, error) {
	return s.chess.Profile(ctx, fideID)
}

// Financials proxies the fundamentals panel payload.
func (s *Service) Financials(ctx context.Context, ticker string) (model.Financials, error) {
	return s.investing.Financials(ctx, ticker)
}

// MarketCap proxies the market-cap figure.
func (s *Service) MarketCap(ctx context.Context, ticker string) (model.MarketCap, error) {
	return s.investing.MarketCap(ctx, ticker)
}

// PriceHistory proxies the chart-ready price series.
func (s *Service) PriceHistory(ctx context.Context, ticker, rangeSpec string) (model.PriceHistory, error) {
	return s.investing.PriceHistory(ctx, ticker, rangeSpec)
}

// News proxies the aggregated headlines for a ticker.
func (s *Service) News(ctx context.Context, ticker string) ([]model.NewsItem, error) {
	return s.investing.News(ctx, ticker)
}

// RecentList returns the user's recently viewed tickers, newest first.
func (s *Service) RecentList(ctx context.Context, user string) ([]recent.View, error) {
	return s.recents.List(ctx, user)
}

// RecentRecord marks ticker as the user's most recent view.
func (s *Service) RecentRecord(ctx context.Context, user, ticker string) error {
	if err := s.recents.Record(ctx, user, ticker); err != nil {
		return err
	}
	metrics.RecordRecentRecorded()
	metrics.UpdateRecentViews(s.recents.Size())
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.quoteQueue.Len(ctx)
		moversTracked := s.board.Count(ctx)

		stats["queueLength"] = queueLen
		stats["moversTracked"] = moversTracked
		stats["dedupeEntries"] = s.deduper.Size()
		stats["recentViews"] = s.recents.Size()
		stats["streamEnabled"] = s.streamURL != ""

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateMoversTracked(moversTracked)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
