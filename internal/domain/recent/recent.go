// Package recent tracks per-user recently viewed tickers.
//
// A view moves the ticker to the front of that user's list; lists are
// bounded, evicting the oldest entry at capacity. This is the service-side
// analog of the browser's per-user localStorage "recently viewed" entries.
package recent

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// View is one remembered visit.
type View struct {
	Ticker   string    `json:"ticker"`
	ViewedAt time.Time `json:"viewed_at"`
}

// Tracker records and lists recently viewed tickers per user.
type Tracker interface {
	// Record marks ticker as the user's most recent view. Repeat views
	// move the ticker to the front rather than duplicating it.
	Record(ctx context.Context, user, ticker string) error

	// List returns the user's views, most recent first.
	List(ctx context.Context, user string) ([]View, error)

	// Clear forgets everything recorded for the user.
	Clear(ctx context.Context, user string) error

	// Size returns the total number of remembered views across users.
	Size() int64
}

// entry is a node in a user's doubly linked MRU list.
type entry struct {
	ticker   string
	viewedAt time.Time
	prev     *entry
	next     *entry
}

// userList is one user's bounded MRU list with an index by ticker.
type userList struct {
	head     *entry
	tail     *entry
	byTicker map[string]*entry
}

// memoryTracker implements Tracker in process memory.
type memoryTracker struct {
	mu       sync.RWMutex
	users    map[string]*userList
	capacity int
	size     atomic.Int64
	now      func() time.Time
}

const defaultCapacity = 20

// Option applies a configuration option to the memory tracker.
type Option func(*memoryTracker)

// WithCapacity bounds each user's list. Values below one fall back to the
// default.
func WithCapacity(n int) Option {
	return func(t *memoryTracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *memoryTracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewMemoryTracker creates an in-memory Tracker with configuration options.
func NewMemoryTracker(opts ...Option) Tracker {
	t := &memoryTracker{
		users:    make(map[string]*userList),
		capacity: defaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *memoryTracker) Record(ctx context.Context, user, ticker string) error {
	user = strings.TrimSpace(user)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if user == "" {
		return ErrNoUser
	}
	if ticker == "" {
		return ErrNoTicker
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	list, ok := t.users[user]
	if !ok {
		list = &userList{byTicker: make(map[string]*entry)}
		t.users[user] = list
	}

	if e, seen := list.byTicker[ticker]; seen {
		e.viewedAt = t.now()
		list.moveToFront(e)
		return nil
	}

	if len(list.byTicker) >= t.capacity {
		list.dropTail()
		t.size.Add(-1)
	}

	e := &entry{ticker: ticker, viewedAt: t.now()}
	list.pushFront(e)
	list.byTicker[ticker] = e
	t.size.Add(1)
	return nil
}

func (t *memoryTracker) List(ctx context.Context, user string) ([]View, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, ErrNoUser
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	list, ok := t.users[user]
	if !ok {
		return []View{}, nil
	}
	out := make([]View, 0, len(list.byTicker))
	for e := list.head; e != nil; e = e.next {
		out = append(out, View{Ticker: e.ticker, ViewedAt: e.viewedAt})
	}
	return out, nil
}

func (t *memoryTracker) Clear(ctx context.Context, user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return ErrNoUser
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if list, ok := t.users[user]; ok {
		t.size.Add(-int64(len(list.byTicker)))
		delete(t.users, user)
	}
	return nil
}

func (t *memoryTracker) Size() int64 {
	return t.size.Load()
}

// pushFront links e as the newest entry.
func (l *userList) pushFront(e *entry) {
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
}

// moveToFront relinks an existing entry as the newest.
func (l *userList) moveToFront(e *entry) {
	if l.head == e {
		return
	}
	// unlink
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if l.tail == e {
		l.tail = e.prev
	}
	l.pushFront(e)
}

// dropTail evicts the oldest entry.
func (l *userList) dropTail() {
	e := l.tail
	if e == nil {
		return
	}
	delete(l.byTicker, e.ticker)
	if e.prev != nil {
		e.prev.next = nil
	}
	l.tail = e.prev
	if l.head == e {
		l.head = nil
	}
}
