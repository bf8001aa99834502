package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRecentStore(t *testing.T, opts ...RecentOption) *RecentStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "recent.db")
	store, err := NewRecentStore(dbPath, opts...)
	if err != nil {
		t.Fatalf("failed to open recent store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecentStore_RecordAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t)

	for _, ticker := range []string{"AAPL", "MSFT", "NVDA"} {
		if err := store.Record(ctx, "alice", ticker); err != nil {
			t.Fatalf("failed to record %s: %v", ticker, err)
		}
	}

	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}

	// Most recent first
	expected := []string{"NVDA", "MSFT", "AAPL"}
	for i, want := range expected {
		if views[i].Ticker != want {
			t.Errorf("position %d: expected %s, got %s", i, want, views[i].Ticker)
		}
	}
}

func TestRecentStore_RepeatViewMovesToFront(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t)

	for _, ticker := range []string{"AAPL", "MSFT", "NVDA"} {
		if err := store.Record(ctx, "alice", ticker); err != nil {
			t.Fatalf("failed to record %s: %v", ticker, err)
		}
	}

	// Viewing AAPL again promotes it without duplicating
	if err := store.Record(ctx, "alice", "AAPL"); err != nil {
		t.Fatalf("failed to re-record AAPL: %v", err)
	}

	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views, got %d", len(views))
	}
	if views[0].Ticker != "AAPL" {
		t.Errorf("expected AAPL first after repeat view, got %s", views[0].Ticker)
	}
}

func TestRecentStore_CapacityEviction(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t, WithRecentCapacity(3))

	for _, ticker := range []string{"AAPL", "MSFT", "NVDA", "TSLA"} {
		if err := store.Record(ctx, "alice", ticker); err != nil {
			t.Fatalf("failed to record %s: %v", ticker, err)
		}
	}

	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 views after eviction, got %d", len(views))
	}

	// AAPL was the oldest and should be gone
	for _, v := range views {
		if v.Ticker == "AAPL" {
			t.Error("expected AAPL to be evicted")
		}
	}
	if views[0].Ticker != "TSLA" {
		t.Errorf("expected TSLA first, got %s", views[0].Ticker)
	}
}

func TestRecentStore_PerUserIsolation(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t)

	if err := store.Record(ctx, "alice", "AAPL"); err != nil {
		t.Fatalf("failed to record for alice: %v", err)
	}
	if err := store.Record(ctx, "bob", "TSLA"); err != nil {
		t.Fatalf("failed to record for bob: %v", err)
	}

	aliceViews, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list alice: %v", err)
	}
	if len(aliceViews) != 1 || aliceViews[0].Ticker != "AAPL" {
		t.Errorf("unexpected alice views: %+v", aliceViews)
	}

	bobViews, err := store.List(ctx, "bob")
	if err != nil {
		t.Fatalf("failed to list bob: %v", err)
	}
	if len(bobViews) != 1 || bobViews[0].Ticker != "TSLA" {
		t.Errorf("unexpected bob views: %+v", bobViews)
	}

	if size := store.Size(); size != 2 {
		t.Errorf("expected size 2, got %d", size)
	}
}

func TestRecentStore_Clear(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t)

	_ = store.Record(ctx, "alice", "AAPL")
	_ = store.Record(ctx, "alice", "MSFT")
	_ = store.Record(ctx, "bob", "TSLA")

	if err := store.Clear(ctx, "alice"); err != nil {
		t.Fatalf("failed to clear alice: %v", err)
	}

	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list alice: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("expected 0 views after clear, got %d", len(views))
	}

	// Bob is untouched
	if size := store.Size(); size != 1 {
		t.Errorf("expected size 1 after clear, got %d", size)
	}
}

func TestRecentStore_Validation(t *testing.T) {
	ctx := context.Background()
	store := newTestRecentStore(t)

	if err := store.Record(ctx, "", "AAPL"); err == nil {
		t.Error("expected error for empty user")
	}
	if err := store.Record(ctx, "alice", "  "); err == nil {
		t.Error("expected error for empty ticker")
	}
	if _, err := store.List(ctx, ""); err == nil {
		t.Error("expected error listing empty user")
	}
	if err := store.Clear(ctx, ""); err == nil {
		t.Error("expected error clearing empty user")
	}

	// Tickers are normalized to upper case
	if err := store.Record(ctx, "alice", "aapl"); err != nil {
		t.Fatalf("failed to record lower-case ticker: %v", err)
	}
	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 1 || views[0].Ticker != "AAPL" {
		t.Errorf("expected normalized AAPL, got %+v", views)
	}
}

func TestRecentStore_OpenFailure(t *testing.T) {
	// A path inside a directory that does not exist fails on the first
	// pragma exec; the store must surface the error rather than a handle.
	dbPath := filepath.Join(t.TempDir(), "missing", "nested", "recent.db")
	store, err := NewRecentStore(dbPath)
	if err == nil {
		_ = store.Close()
		t.Fatal("expected error opening store under a missing directory")
	}
	if store != nil {
		t.Errorf("expected nil store on open failure, got %+v", store)
	}
}

func TestRecentStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "recent.db")

	store, err := NewRecentStore(dbPath)
	if err != nil {
		t.Fatalf("failed to open recent store: %v", err)
	}
	if err := store.Record(ctx, "alice", "AAPL"); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	// Reopen and verify the view survived
	reopened, err := NewRecentStore(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen recent store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	views, err := reopened.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list after reopen: %v", err)
	}
	if len(views) != 1 || views[0].Ticker != "AAPL" {
		t.Errorf("expected persisted AAPL view, got %+v", views)
	}
}

func TestRecentStore_ClockOverride(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	current := fixed
	store := newTestRecentStore(t, WithRecentClock(func() time.Time {
		current = current.Add(time.Second)
		return current
	}))

	_ = store.Record(ctx, "alice", "AAPL")
	_ = store.Record(ctx, "alice", "MSFT")

	views, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatalf("failed to list views: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}
	if !views[0].ViewedAt.After(views[1].ViewedAt) {
		t.Errorf("expected MSFT viewed after AAPL: %v vs %v", views[0].ViewedAt, views[1].ViewedAt)
	}
}
