package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/multidash/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRingDeduper(t *testing.T) {
	Convey("Given a new ring deduper", t, func() {
		ctx := context.Background()

		Convey("When recording update IDs", func() {
			d := dedupe.NewRingDeduper()

			Convey("And the ID is new", func() {
				seen := d.SeenAndRecord(ctx, "q-1")

				Convey("Then it should return false and record the ID", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the ID was already seen", func() {
				d.SeenAndRecord(ctx, "q-1")
				seen := d.SeenAndRecord(ctx, "q-1")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When unrecording IDs", func() {
			d := dedupe.NewRingDeduper()

			Convey("And the ID exists", func() {
				d.SeenAndRecord(ctx, "q-1")
				d.Unrecord(ctx, "q-1")

				Convey("Then it can be recorded again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "q-1"), ShouldBeFalse)
				})
			})

			Convey("And the ID does not exist", func() {
				d.Unrecord(ctx, "nonexistent")

				Convey("Then the size is unchanged", func() {
					So(d.Size(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the deduper reaches capacity", func() {
			d := dedupe.NewRingDeduper(dedupe.WithMaxSize(3))

			for _, id := range []string{"q-1", "q-2", "q-3"} {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}
			So(d.Size(), ShouldEqual, 3)

			Convey("Then a fourth ID evicts the oldest", func() {
				So(d.SeenAndRecord(ctx, "q-4"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)

				// q-1 was evicted and records as new again.
				So(d.SeenAndRecord(ctx, "q-1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})

			Convey("And a slot freed by Unrecord is reclaimed for free", func() {
				d.Unrecord(ctx, "q-2")
				So(d.Size(), ShouldEqual, 2)

				// q-4 evicts q-1 (oldest live write); q-5 lands on the
				// stale q-2 slot without evicting anyone.
				So(d.SeenAndRecord(ctx, "q-4"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "q-5"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)

				So(d.SeenAndRecord(ctx, "q-3"), ShouldBeTrue)
			})
		})

		Convey("When accessed concurrently", func() {
			d := dedupe.NewRingDeduper(dedupe.WithMaxSize(10_000))
			const goroutines = 8
			const perGoroutine = 500

			var wg sync.WaitGroup
			for g := 0; g < goroutines; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < perGoroutine; i++ {
						d.SeenAndRecord(ctx, fmt.Sprintf("q-%d-%d", g, i))
					}
				}(g)
			}
			wg.Wait()

			Convey("Then every distinct ID is recorded exactly once", func() {
				So(d.Size(), ShouldEqual, goroutines*perGoroutine)
			})
		})
	})
}
