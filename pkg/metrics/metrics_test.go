package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When a manager is built with custom options", func() {
			m := NewManager(
				WithNamespace("school"),
				WithSubsystem("fitness"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithConstLabels(map[string]string{"campus": "east"}),
				WithPrometheusRegistry(registry),
			)
			m.measurementsScored.Inc()

			Convey("Then collectors are registered under the namespace", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["school_fitness_measurements_scored_total"], ShouldBeTrue)
				So(testutil.ToFloat64(m.measurementsScored), ShouldEqual, 1)
			})
		})

		Convey("When empty options are given", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil),
				WithConstLabels(nil), WithPrometheusRegistry(registry))

			Convey("Then the defaults are kept", func() {
				So(m.namespace, ShouldEqual, "sporttools")
				So(m.subsystem, ShouldEqual, "")
				So(m.histogramBuckets, ShouldResemble, latencyBuckets)
				So(m.constLabels, ShouldBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When scoring outcomes are recorded", func() {
			before := testutil.ToFloat64(globalManager.measurementsScored)
			RecordMeasurementScored("良好")
			RecordMeasurementScored("")
			RecordBonusAwarded("ropeSkipping", 20)
			RecordBonusAwarded("pullUps", 0)

			Convey("Then counters move", func() {
				So(testutil.ToFloat64(globalManager.measurementsScored), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.gradeLevels.WithLabelValues("良好")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.bonusAwarded.WithLabelValues("ropeSkipping")), ShouldBeGreaterThanOrEqualTo, 20)
			})
		})

		Convey("When an empty scheduling run is recorded", func() {
			runs := testutil.ToFloat64(globalManager.scheduleRuns)
			empty := testutil.ToFloat64(globalManager.scheduleEmptyResults)
			RecordScheduleRun(1.5, 0)
			RecordScheduleRun(2, 8)

			Convey("Then both runs count and one is empty", func() {
				So(testutil.ToFloat64(globalManager.scheduleRuns), ShouldEqual, runs+2)
				So(testutil.ToFloat64(globalManager.scheduleEmptyResults), ShouldEqual, empty+1)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateConflictsDetected("venue", 3)
			UpdateQueueSize(7)
			UpdateRankedStudents(42)

			Convey("Then they hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.conflictsDetected.WithLabelValues("venue")), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
				So(testutil.ToFloat64(globalManager.rankedStudents), ShouldEqual, 42)
			})
		})

		Convey("When HTTP traffic is recorded", func() {
			RecordHTTPRequest("/ranking", "GET", "200")
			RecordHTTPRequestDuration("/ranking", "GET", "200", 3)
			RecordHTTPError("/meets", "POST", "conflict", "low")

			Convey("Then the registry gathers without error", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("/ranking", "GET", "200")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})
	})
}
