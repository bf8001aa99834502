// Package repository defines the movers board interface and errors.
package repository

import "time"

// Option applies a configuration option to the TreapBoard.
type Option func(*TreapBoard)

// WithSnapshotInterval sets the interval for periodic board snapshots.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(b *TreapBoard) {
		if interval > 0 {
			b.snapshotInterval = interval
		}
	}
}

// WithTopCacheSize sets the size of the snapshot gainer/loser caches.
func WithTopCacheSize(size int) Option {
	return func(b *TreapBoard) {
		if size > 0 {
			b.topCacheSize = size
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(b *TreapBoard) {
		if interval > 0 {
			b.metricsUpdateInterval = interval
		}
	}
}
