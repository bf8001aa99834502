// Package worker defines worker contracts for asynchronous day-change
// computation and movers board updates.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/multidash/internal/adapters/mq/queue"
	"github.com/okian/multidash/internal/domain/model"
	"github.com/okian/multidash/pkg/logger"
	"github.com/okian/multidash/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Update abstracts what workers read off the queue.
// Using the model.QuoteUpdate type for consistency.
type Update = model.QuoteUpdate

// Updater applies a computed day-change to the movers board.
type Updater interface {
	Update(ctx context.Context, ticker string, changePct float64) (bool, error)
}

// Calculator computes a day-change percentage for a quote update.
type Calculator interface {
	Change(ctx context.Context, ticker string, price, prevClose float64) (float64, error)
}

// Queue defines how workers receive quote updates.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Update
}

// Worker processes quote updates and writes board updates using the
// provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining updates before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing quote updates.
type InMemoryWorker struct {
	queue      Queue
	calculator Calculator
	updater    Updater
	name       string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, calculator Calculator, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		calculator: calculator,
		updater:    updater,
		name:       "worker", // default name
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"), // will be updated by options
	}

	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	updateChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case update, ok := <-updateChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processUpdate(ctx, update); err != nil {
				w.logger.Error(ctx, "error processing quote update", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	close(w.shutdown)

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processUpdate handles a single quote update.
func (w *InMemoryWorker) processUpdate(ctx context.Context, update queue.Update) error {
	// Track overall processing latency
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	change, err := w.calculator.Change(ctx, update.Ticker, update.Price, update.PrevClose)
	if err != nil {
		metrics.RecordDayChangeError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "day_change_error")
		metrics.RecordErrorByType("day_change_error", "high")
		w.logger.Error(ctx, "day-change computation failed for update",
			logger.String("eventID", update.EventID),
			logger.String("ticker", update.Ticker),
			logger.Error(err),
		)
		return fmt.Errorf("failed to compute day change for %s: %w", update.EventID, err)
	}

	// Update the movers board, carrying the quote details when the
	// board supports them.
	if extended, ok := any(w.updater).(interface {
		UpdateWithQuote(ctx context.Context, ticker string, changePct float64, price, prevClose float64, source string, asOf time.Time) (bool, error)
	}); ok {
		_, err = extended.UpdateWithQuote(ctx, update.Ticker, change, update.Price, update.PrevClose, update.Source, update.TS)
	} else {
		_, err = w.updater.Update(ctx, update.Ticker, change)
	}
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "movers_error")
		metrics.RecordErrorByType("movers_error", "high")
		w.logger.Error(ctx, "movers board update failed",
			logger.String("eventID", update.EventID),
			logger.String("ticker", update.Ticker),
			logger.Error(err),
		)
		return fmt.Errorf("movers board update failed: %w", err)
	}

	metrics.RecordQuoteProcessed()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers    []*InMemoryWorker
	queue      Queue
	calculator Calculator
	updater    Updater

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, calculator Calculator, updater Updater) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		calculator:        calculator,
		updater:           updater,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			calculator,
			updater,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	// Start metrics updater
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	// Calculate messages per second
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		messagesPerSecond := float64(p.processedCount) / timeDiff
		metrics.UpdateWorkerMessagesPerSecond(messagesPerSecond)
	}

	// Reset counters
	p.processedCount = 0
	p.lastProcessedTime = now
}

// RecordProcessedMessage increments the processed message count.
func (p *Pool) RecordProcessedMessage() {
	p.processedCount++
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new updates
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Signal shutdown to all workers
	close(p.shutdown)

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
