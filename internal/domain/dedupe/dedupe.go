// Package dedupe defines the interface for idempotency tracking.
//
// Quote feeds replay: a poller retry or a stream reconnect can deliver the
// same update twice. The deduper remembers recently seen update IDs so the
// ingest path stays at-most-once without unbounded memory.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen update IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing it to be retried.
	// Use only when an update was marked seen but failed to be processed
	// (e.g. queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

const defaultMaxSize = 50_000

// ringDeduper implements Deduper with a fixed ring of IDs in arrival order
// plus a membership set. Every live ID occupies exactly one ring slot, so
// writing into a slot evicts whatever live ID it previously held; the ring
// size is therefore the hard capacity.
type ringDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	next    int // next write position
	maxSize int
	size    atomic.Int64
}

// NewRingDeduper creates a bounded deduper with configuration options.
func NewRingDeduper(opts ...Option) Deduper {
	d := &ringDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.maxSize)
	d.ring = make([]string, d.maxSize)
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *ringDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	// Reclaim the write slot. A stale occupant (already unrecorded) costs
	// nothing; a live one is the oldest surviving write and gets evicted.
	if old := d.ring[d.next]; old != "" {
		if _, live := d.seen[old]; live {
			delete(d.seen, old)
			d.size.Add(-1)
		}
	}

	d.seen[id] = struct{}{}
	d.ring[d.next] = id
	d.next = (d.next + 1) % d.maxSize
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen set. Its ring slot goes stale and
// is reclaimed when the write position comes back around.
func (d *ringDeduper) Unrecord(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; !exists {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)
}

// Size returns the current number of live entries.
func (d *ringDeduper) Size() int64 {
	return d.size.Load()
}
