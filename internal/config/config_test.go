package config_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/okian/multidash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QuoteQueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*10)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.MaxMoversLimit, convey.ShouldEqual, 100)
			convey.So(cfg.RecentCapacity, convey.ShouldEqual, 20)
			convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 10_000)
			convey.So(cfg.RateLimitPerSecond, convey.ShouldEqual, 10.0)
			convey.So(cfg.RateLimitBurst, convey.ShouldEqual, 5)
			convey.So(cfg.CAGRMinimumDays, convey.ShouldEqual, 30)
		})
	})
}
