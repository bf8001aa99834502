package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"

	"github.com/okian/multidash/internal/domain/recent"
)

// RecentStore is a SQLite-backed recent.Tracker. Unlike the in-memory
// tracker it survives restarts, which keeps a user's "recently viewed"
// panel stable across deploys.
type RecentStore struct {
	db       *sql.DB
	capacity int
	now      func() time.Time
}

const defaultRecentCapacity = 20

// RecentOption applies a configuration option to the RecentStore.
type RecentOption func(*RecentStore)

// WithRecentCapacity bounds each user's remembered views.
func WithRecentCapacity(n int) RecentOption {
	return func(s *RecentStore) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithRecentClock overrides the timestamp source, for tests.
func WithRecentClock(now func() time.Time) RecentOption {
	return func(s *RecentStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRecentStore opens (or creates) the SQLite database at dbPath with
// WAL mode enabled and prepares the recent_views table.
func NewRecentStore(dbPath string, opts ...RecentOption) (*RecentStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA cache_size=-2000;", // 2MB cache
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS recent_views (
			user      TEXT NOT NULL,
			ticker    TEXT NOT NULL,
			viewed_at INTEGER NOT NULL,
			PRIMARY KEY (user, ticker)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recent_views table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_recent_views_user_viewed
		ON recent_views (user, viewed_at DESC);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create recent_views index: %w", err)
	}

	s := &RecentStore{
		db:       db,
		capacity: defaultRecentCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Record upserts the view and prunes the user's list down to capacity.
func (s *RecentStore) Record(ctx context.Context, user, ticker string) error {
	user = strings.TrimSpace(user)
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if user == "" {
		return recent.ErrNoUser
	}
	if ticker == "" {
		return recent.ErrNoTicker
	}

	// Nanosecond timestamps keep repeat views in the same instant ordered.
	viewedAt := s.now().UnixNano()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recent_views (user, ticker, viewed_at) VALUES (?, ?, ?)
		 ON CONFLICT(user, ticker) DO UPDATE SET viewed_at=excluded.viewed_at`,
		user, ticker, viewedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM recent_views WHERE user = ? AND ticker NOT IN (
			SELECT ticker FROM recent_views WHERE user = ?
			ORDER BY viewed_at DESC LIMIT ?
		)`,
		user, user, s.capacity,
	)
	if err != nil {
		return fmt.Errorf("failed to prune views: %w", err)
	}
	return nil
}

// List returns the user's views, most recent first.
func (s *RecentStore) List(ctx context.Context, user string) ([]recent.View, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, recent.ErrNoUser
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT ticker, viewed_at FROM recent_views WHERE user = ?
		 ORDER BY viewed_at DESC, ticker ASC`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	views := make([]recent.View, 0, s.capacity)
	for rows.Next() {
		var ticker string
		var viewedAt int64
		if err := rows.Scan(&ticker, &viewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, recent.View{Ticker: ticker, ViewedAt: time.Unix(0, viewedAt)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate views: %w", err)
	}
	return views, nil
}

// Clear forgets everything recorded for the user.
func (s *RecentStore) Clear(ctx context.Context, user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return recent.ErrNoUser
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM recent_views WHERE user = ?", user); err != nil {
		return fmt.Errorf("failed to clear views: %w", err)
	}
	return nil
}

// Size returns the total number of remembered views across users.
func (s *RecentStore) Size() int64 {
	var count sql.NullInt64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM recent_views").Scan(&count); err != nil {
		return 0
	}
	return count.Int64
}

// Close closes the underlying database.
func (s *RecentStore) Close() error {
	return s.db.Close()
}
