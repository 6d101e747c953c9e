package logger_test

import (
	"context"
	"testing"

	"github.com/okian/courtside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When fetching the global logger", func() {
			l := logger.Get()

			Convey("Then it should not be nil and should log without panicking", func() {
				So(l, ShouldNotBeNil)
				So(func() {
					l.Info(context.Background(), "info message", logger.String("k", "v"))
					l.Debug(context.Background(), "debug message", logger.Int("n", 1))
					l.Warn(context.Background(), "warn message", logger.Float64("f", 1.5))
					l.Error(context.Background(), "error message", logger.Error(nil))
				}, ShouldNotPanic)
			})
		})

		Convey("When creating a named logger", func() {
			l := logger.Named("component")

			Convey("Then it should return a usable logger", func() {
				So(l, ShouldNotBeNil)
				So(func() { l.Info(context.Background(), "named") }, ShouldNotPanic)
			})
		})

		Convey("When setting the level from a string", func() {
			Convey("Then known levels should be accepted", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				So(logger.SetLevelString("info"), ShouldBeNil)
				So(logger.SetLevelString("WARN"), ShouldBeNil)
				So(logger.SetLevelString("error"), ShouldBeNil)
				So(logger.SetLevelString(""), ShouldBeNil)
			})

			Convey("And unknown levels should be rejected", func() {
				So(logger.SetLevelString("verbose"), ShouldNotBeNil)
			})
		})
	})
}
