// Package dedupe defines the interface for idempotency tracking.
package dedupe

// Option applies a configuration option to the ring deduper.
type Option func(*ringDeduper)

// WithMaxSize sets the number of IDs remembered before the oldest is
// evicted. Values below one keep the default.
func WithMaxSize(maxSize int) Option {
	return func(d *ringDeduper) {
		if maxSize > 0 {
			d.maxSize = maxSize
		}
	}
}
