package metrics_test

import (
	"testing"

	"github.com/okian/courtside/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		reg := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(reg),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("match"),
		)

		Convey("Then construction should register collectors without panicking", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global manager", t, func() {
		Convey("When recording domain metrics", func() {
			Convey("Then the helpers should not panic", func() {
				So(func() {
					metrics.RecordEventAppended("goal_scored")
					metrics.RecordValidationRejection()
					metrics.RecordUndoNoop()
					metrics.RecordMatchStarted()
					metrics.RecordMatchEnded()
					metrics.RecordReplay(12)
					metrics.RecordProjectionLatency(0.2)
					metrics.RecordStoreAppendLatency(0.4)
					metrics.RecordStoreError()
					metrics.UpdateActiveMatches(3)
					metrics.RecordHTTPRequest("matches", "POST", "200")
					metrics.RecordHTTPRequestDuration("matches", "POST", "200", 1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering the shared registry", func() {
			families, err := metrics.GetRegistry().Gather()

			Convey("Then it should expose the courtside metric families", func() {
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["courtside_match_events_appended_total"], ShouldBeTrue)
				So(names["courtside_match_validation_rejections_total"], ShouldBeTrue)
				So(names["courtside_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
