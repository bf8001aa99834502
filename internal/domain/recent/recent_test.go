package recent_test

import (
	"context"
	"testing"
	"time"

	recent "github.com/okian/multidash/internal/domain/recent"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryTracker(t *testing.T) {
	Convey("Given an in-memory recent tracker", t, func() {
		ctx := context.Background()
		clock := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
		tracker := recent.NewMemoryTracker(
			recent.WithCapacity(3),
			recent.WithClock(func() time.Time {
				clock = clock.Add(time.Second)
				return clock
			}),
		)

		Convey("When a user views a few tickers", func() {
			So(tracker.Record(ctx, "u1", "AAPL"), ShouldBeNil)
			So(tracker.Record(ctx, "u1", "MSFT"), ShouldBeNil)
			So(tracker.Record(ctx, "u1", "NVDA"), ShouldBeNil)

			Convey("Then List returns them most recent first", func() {
				views, err := tracker.List(ctx, "u1")
				So(err, ShouldBeNil)
				So(symbols(views), ShouldResemble, []string{"NVDA", "MSFT", "AAPL"})
			})

			Convey("And a repeat view moves the ticker to the front", func() {
				So(tracker.Record(ctx, "u1", "AAPL"), ShouldBeNil)
				views, err := tracker.List(ctx, "u1")
				So(err, ShouldBeNil)
				So(symbols(views), ShouldResemble, []string{"AAPL", "NVDA", "MSFT"})
				So(tracker.Size(), ShouldEqual, 3)
			})

			Convey("And exceeding capacity evicts the oldest view", func() {
				So(tracker.Record(ctx, "u1", "TSLA"), ShouldBeNil)
				views, err := tracker.List(ctx, "u1")
				So(err, ShouldBeNil)
				So(symbols(views), ShouldResemble, []string{"TSLA", "NVDA", "MSFT"})
			})
		})

		Convey("When different users view tickers", func() {
			So(tracker.Record(ctx, "u1", "AAPL"), ShouldBeNil)
			So(tracker.Record(ctx, "u2", "TSLA"), ShouldBeNil)

			Convey("Then their lists are independent", func() {
				v1, _ := tracker.List(ctx, "u1")
				v2, _ := tracker.List(ctx, "u2")
				So(symbols(v1), ShouldResemble, []string{"AAPL"})
				So(symbols(v2), ShouldResemble, []string{"TSLA"})
				So(tracker.Size(), ShouldEqual, 2)
			})

			Convey("And Clear forgets only one user", func() {
				So(tracker.Clear(ctx, "u1"), ShouldBeNil)
				v1, _ := tracker.List(ctx, "u1")
				v2, _ := tracker.List(ctx, "u2")
				So(v1, ShouldBeEmpty)
				So(symbols(v2), ShouldResemble, []string{"TSLA"})
			})
		})

		Convey("When inputs are malformed", func() {
			Convey("Then a missing user is rejected", func() {
				So(tracker.Record(ctx, " ", "AAPL"), ShouldEqual, recent.ErrNoUser)
				_, err := tracker.List(ctx, "")
				So(err, ShouldEqual, recent.ErrNoUser)
			})

			Convey("Then a missing ticker is rejected", func() {
				So(tracker.Record(ctx, "u1", "  "), ShouldEqual, recent.ErrNoTicker)
			})

			Convey("Then ticker case is normalized", func() {
				So(tracker.Record(ctx, "u1", "aapl"), ShouldBeNil)
				views, _ := tracker.List(ctx, "u1")
				So(symbols(views), ShouldResemble, []string{"AAPL"})
			})
		})

		Convey("When listing a user with no history", func() {
			views, err := tracker.List(ctx, "nobody")
			So(err, ShouldBeNil)
			So(views, ShouldBeEmpty)
		})
	})
}

func symbols(views []recent.View) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Ticker
	}
	return out
}
