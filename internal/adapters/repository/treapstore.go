// Package repository defines the movers board interface and errors.
package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/multidash/pkg/metrics"
)

// Treap-based, in-memory Board implementation.
//
// Ordering: day-change DESC, then ticker ASC (deterministic).
// We implement a BST comparator where "less" means ranks earlier
// (i.e., a bigger gain ranks earlier). In-order traversal produces
// the movers board from biggest gainer to biggest loser, and the
// reverse traversal produces the losers board.

// changeScale controls fixed-point scaling from float64.
const changeScale = 10_000_000_000 // 10 decimal places

type changeFP int64

func toFixedPoint(x float64) changeFP {
	if math.IsNaN(x) {
		return 0
	}
	if math.IsInf(x, 1) {
		return changeFP(math.MaxInt64)
	}
	if math.IsInf(x, -1) {
		return changeFP(math.MinInt64)
	}

	scaled := x * changeScale
	if scaled > float64(math.MaxInt64) {
		return changeFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return changeFP(math.MinInt64)
	}
	return changeFP(math.Round(scaled))
}

func toFloat(x changeFP) float64 {
	return float64(x) / changeScale
}

// record stores the fixed-point change plus the quote details for a ticker.
type record struct {
	change    changeFP
	price     float64
	prevClose float64
	source    string
	asOf      time.Time
}

// Snapshot is an immutable view of the board published periodically.
type Snapshot struct {
	// Rank and change in O(1) for reads
	RankByTicker   map[string]int
	ChangeByTicker map[string]float64

	// Fast gainer/loser caches up to M items each
	TopCache    []Entry // sorted by change descending
	BottomCache []Entry // sorted by change ascending
}

// treap node
type node struct {
	id     string
	change changeFP
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aChange, aID) should appear before (bChange, bID)
// on the board (bigger gains first).
func less(aChange changeFP, aID string, bChange changeFP, bID string) bool {
	if aChange != bChange {
		return aChange > bChange // bigger gain ranks earlier
	}
	return aID < bID // tie-breaker by ticker asc
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, change changeFP) *node {
	if n == nil {
		return &node{id: id, change: change, prio: rand.Uint64(), size: 1}
	}
	if less(change, id, n.change, n.id) {
		n.left = insert(n.left, id, change)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, change)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, change changeFP) *node {
	if n == nil {
		return nil
	}
	if change == n.change && id == n.id {
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, change)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, change)
		}
	} else if less(change, id, n.change, n.id) {
		n.left = deleteNode(n.left, id, change)
	} else {
		n.right = deleteNode(n.right, id, change)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit entries in rank order (biggest gains first).
func collectTopN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectTopN(n.left, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, entryFor(n.id, rec))
		}
	}

	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// collectBottomN appends up to limit entries in reverse rank order
// (biggest losses first).
func collectBottomN(n *node, limit int, records map[string]record, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}

	collectBottomN(n.right, limit, records, out)

	if len(*out) < limit {
		if rec, exists := records[n.id]; exists {
			*out = append(*out, entryFor(n.id, rec))
		}
	}

	if len(*out) < limit {
		collectBottomN(n.left, limit, records, out)
	}
}

func entryFor(ticker string, rec record) Entry {
	return Entry{
		Ticker:    ticker,
		ChangePct: toFloat(rec.change),
		Price:     rec.price,
		PrevClose: rec.prevClose,
		Source:    rec.source,
		AsOf:      rec.asOf,
	}
}

// TreapBoard is the treap-backed movers Board.
type TreapBoard struct {
	mu                    sync.RWMutex
	root                  *node
	byTicker              map[string]record
	snapshotInterval      time.Duration
	metricsUpdateInterval time.Duration
	topCacheSize          int

	// snapshot is an atomic pointer to the last published Snapshot
	snapshot atomic.Pointer[Snapshot]

	// Background goroutine management
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewTreapBoard constructs a treap board with configuration options.
func NewTreapBoard(ctx context.Context, opts ...Option) *TreapBoard {
	b := &TreapBoard{
		snapshotInterval:      1 * time.Second,
		metricsUpdateInterval: 5 * time.Second,
		topCacheSize:          100,
		byTicker:              make(map[string]record),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.stopChan = make(chan struct{})
	b.startPeriodicSnapshots(ctx)
	b.startMetricsUpdater(ctx)

	return b
}

// startPeriodicSnapshots publishes board snapshots at the configured interval.
func (b *TreapBoard) startPeriodicSnapshots(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case <-ticker.C:
				b.publishSnapshot()
			}
		}
	}()
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (b *TreapBoard) publishSnapshot() {
	start := time.Now()
	b.mu.RLock()
	b.publishSnapshotInternal()
	b.mu.RUnlock()

	ms := float64(time.Since(start).Milliseconds())
	metrics.RecordMoversSnapshotRebuildDuration(ms)
	metrics.UpdateMoversSnapshotLastDurationMs(ms)
	metrics.UpdateMoversSnapshotLastUnix(float64(time.Now().Unix()))
	metrics.IncrementMoversSnapshotCount()
}

// Snapshot returns the last published snapshot, or nil before the first one.
func (b *TreapBoard) Snapshot() *Snapshot {
	return b.snapshot.Load()
}

// Close gracefully shuts down the background goroutines.
func (b *TreapBoard) Close() error {
	select {
	case <-b.stopChan:
		// Channel already closed
	default:
		close(b.stopChan)
	}
	b.wg.Wait()
	return nil
}

// Update implements Board.Update with O(log n) expected time.
func (b *TreapBoard) Update(ctx context.Context, ticker string, changePct float64) (bool, error) {
	return b.UpdateWithQuote(ctx, ticker, changePct, 0, 0, "", time.Time{})
}

// UpdateWithQuote implements Board.UpdateWithQuote with O(log n) expected time.
func (b *TreapBoard) UpdateWithQuote(ctx context.Context, ticker string, changePct float64, price, prevClose float64, source string, asOf time.Time) (bool, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordMoversUpdateLatency(float64(latency))
	}()

	nc := toFixedPoint(changePct)

	created := false

	b.mu.Lock()
	if old, ok := b.byTicker[ticker]; ok {
		// Movers go down as well as up, so each update replaces the
		// previous change rather than keeping the best one.
		b.root = deleteNode(b.root, ticker, old.change)
	} else {
		created = true
	}
	b.byTicker[ticker] = record{change: nc, price: price, prevClose: prevClose, source: source, asOf: asOf}
	b.root = insert(b.root, ticker, nc)
	b.mu.Unlock()

	metrics.RecordMoversUpdate()
	if created {
		metrics.UpdateMoversTracked(b.Count(ctx))
	}

	// Snapshots are published periodically, not after every update.
	return created, nil
}

// Rank returns the current rank and change for a ticker in O(n log n).
func (b *TreapBoard) Rank(ctx context.Context, ticker string) (Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordMoversQueryLatency(float64(latency))
	}()

	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.byTicker[ticker]; !ok {
		metrics.RecordErrorByComponent("movers", "not_found")
		return Entry{}, ErrNotFound
	}

	allEntries := make([]Entry, 0, len(b.byTicker))
	collectAll(b.root, b.byTicker, &allEntries)

	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		if entry.Ticker == ticker {
			return entry, nil
		}
	}

	return Entry{}, ErrNotFound
}

// TopN returns the top N gainers ordered by change desc.
func (b *TreapBoard) TopN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordMoversQueryLatency(float64(latency))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("movers", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTopN(b.root, n, b.byTicker, &out)

	assignRanksWithTies(out)
	return out, nil
}

// BottomN returns the bottom N losers ordered by change asc. Ranks are
// global board ranks, so the biggest loser carries the last rank.
func (b *TreapBoard) BottomN(ctx context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordMoversQueryLatency(float64(latency))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("movers", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	allEntries := make([]Entry, 0, len(b.byTicker))
	collectAll(b.root, b.byTicker, &allEntries)

	sortEntries(allEntries)
	assignRanksWithTies(allEntries)

	if n > len(allEntries) {
		n = len(allEntries)
	}
	out := make([]Entry, 0, n)
	for i := len(allEntries) - 1; i >= len(allEntries)-n; i-- {
		out = append(out, allEntries[i])
	}
	return out, nil
}

// Count returns the total number of tickers on the board.
func (b *TreapBoard) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byTicker)
}

// publishSnapshotInternal rebuilds and publishes a new snapshot (assumes lock is held).
func (b *TreapBoard) publishSnapshotInternal() {
	// Build gainer/loser caches for fast dashboard queries
	topCache := make([]Entry, 0, b.topCacheSize)
	collectTopN(b.root, b.topCacheSize, b.byTicker, &topCache)
	bottomCache := make([]Entry, 0, b.topCacheSize)
	collectBottomN(b.root, b.topCacheSize, b.byTicker, &bottomCache)

	rankByTicker := make(map[string]int, len(b.byTicker))
	changeByTicker := make(map[string]float64, len(b.byTicker))

	allEntries := make([]Entry, 0, len(b.byTicker))
	collectAll(b.root, b.byTicker, &allEntries)
	assignRanksWithTies(allEntries)

	for _, entry := range allEntries {
		rankByTicker[entry.Ticker] = entry.Rank
		changeByTicker[entry.Ticker] = entry.ChangePct
	}

	for i := range topCache {
		if rank, exists := rankByTicker[topCache[i].Ticker]; exists {
			topCache[i].Rank = rank
		}
	}
	for i := range bottomCache {
		if rank, exists := rankByTicker[bottomCache[i].Ticker]; exists {
			bottomCache[i].Rank = rank
		}
	}

	snapshot := &Snapshot{
		RankByTicker:   rankByTicker,
		ChangeByTicker: changeByTicker,
		TopCache:       topCache,
		BottomCache:    bottomCache,
	}

	b.snapshot.Store(snapshot)
}

// startMetricsUpdater refreshes board gauges at the configured interval.
func (b *TreapBoard) startMetricsUpdater(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case <-ticker.C:
				b.updateMetrics()
			}
		}
	}()
}

// updateMetrics refreshes the tracked-ticker gauge.
func (b *TreapBoard) updateMetrics() {
	b.mu.RLock()
	tracked := len(b.byTicker)
	b.mu.RUnlock()

	metrics.UpdateMoversTracked(tracked)
}

// collectAll appends all entries in rank order (biggest gains first).
func collectAll(n *node, byTicker map[string]record, out *[]Entry) {
	if n == nil {
		return
	}
	collectAll(n.left, byTicker, out)
	if rec, ok := byTicker[n.id]; ok {
		*out = append(*out, entryFor(n.id, rec))
	}
	collectAll(n.right, byTicker, out)
}

// sortEntries sorts entries by change (descending) and ticker (ascending)
// to match the board ordering.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ChangePct != entries[j].ChangePct {
			return entries[i].ChangePct > entries[j].ChangePct
		}
		return entries[i].Ticker < entries[j].Ticker
	})
}

// assignRanksWithTies assigns ranks with proper tie handling. Tickers
// with the same change share a rank, and ranking stays consecutive.
func assignRanksWithTies(entries []Entry) {
	if len(entries) == 0 {
		return
	}

	currentRank := 1
	for i := 0; i < len(entries); i++ {
		entries[i].Rank = currentRank

		sameChangeCount := 1
		for j := i + 1; j < len(entries) && entries[j].ChangePct == entries[i].ChangePct; j++ {
			entries[j].Rank = currentRank
			sameChangeCount++
		}

		currentRank++
		i += sameChangeCount - 1
	}
}
