package pursuit

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func testTrajectory() Trajectory {
	return NewTrajectory(400, 300, 200, 0.4, 80)
}

func TestTrajectory(t *testing.T) {
	Convey("Given the pursuit trajectory", t, func() {
		tr := testTrajectory()

		Convey("The dot starts at the vertical center", func() {
			x, y := tr.TargetAt(0)
			So(x, ShouldEqual, 400)
			So(y, ShouldAlmostEqual, 300, 1e-9)
		})

		Convey("The quarter-period peak sits one amplitude above center", func() {
			// 0.4 Hz puts the first peak at t = 0.625s.
			_, y := tr.TargetAt(0.625)
			So(y, ShouldAlmostEqual, 500, 1e-9)
		})

		Convey("The motion is periodic", func() {
			_, y0 := tr.TargetAt(0.2)
			_, y1 := tr.TargetAt(0.2 + 2.5)
			So(y1, ShouldAlmostEqual, y0, 1e-9)
		})
	})
}

func TestSampler(t *testing.T) {
	Convey("Given a pursuit sampler", t, func() {
		tr := testTrajectory()

		Convey("Perfect tracking yields zero error and full in-window fraction", func() {
			s := NewSampler(tr)
			for i := 0; i < 50; i++ {
				t := float64(i) * 0.033
				x, y := tr.TargetAt(t)
				s.Observe(x, y, t)
			}
			sum := s.Summarize()
			So(sum.MeanError, ShouldAlmostEqual, 0, 1e-9)
			So(sum.ErrorStd, ShouldAlmostEqual, 0, 1e-9)
			So(sum.InWindowFraction, ShouldEqual, 1.0)
			So(sum.SampleCount, ShouldEqual, 50)
		})

		Convey("Errors inside the tolerance still count as in-window", func() {
			s := NewSampler(tr)
			x, y := tr.TargetAt(0)
			s.Observe(x+79, y, 0)
			sum := s.Summarize()
			So(sum.MeanError, ShouldAlmostEqual, 79, 1e-9)
			So(sum.InWindowFraction, ShouldEqual, 1.0)
		})

		Convey("An error exactly at the tolerance radius is out of window", func() {
			s := NewSampler(tr)
			x, y := tr.TargetAt(0)
			s.Observe(x+80, y, 0)
			sum := s.Summarize()
			So(sum.MeanError, ShouldAlmostEqual, 80, 1e-9)
			So(sum.InWindowFraction, ShouldEqual, 0)
		})

		Convey("Missed frames dilute the in-window fraction but not the error stats", func() {
			s := NewSampler(tr)
			x, y := tr.TargetAt(0)
			s.Observe(x, y, 0)
			s.ObserveMiss()
			s.ObserveMiss()
			s.ObserveMiss()
			sum := s.Summarize()
			So(sum.SampleCount, ShouldEqual, 4)
			So(sum.MeanError, ShouldAlmostEqual, 0, 1e-9)
			So(sum.InWindowFraction, ShouldAlmostEqual, 0.25, 1e-9)
		})

		Convey("Mixed tracking reports dispersion", func() {
			s := NewSampler(tr)
			x, y := tr.TargetAt(0)
			s.Observe(x+10, y, 0)
			s.Observe(x+200, y, 0)
			sum := s.Summarize()
			So(sum.MeanError, ShouldAlmostEqual, 105, 1e-9)
			So(sum.ErrorStd, ShouldAlmostEqual, 95, 1e-9)
			So(sum.InWindowFraction, ShouldAlmostEqual, 0.5, 1e-9)
		})

		Convey("An empty phase reports the sentinel, never false perfection", func() {
			s := NewSampler(tr)
			s.ObserveMiss()
			s.ObserveMiss()
			sum := s.Summarize()
			So(sum.MeanError, ShouldEqual, float64(NoSampleError))
			So(sum.ErrorStd, ShouldEqual, float64(NoSampleError))
			So(sum.InWindowFraction, ShouldEqual, 0)
			So(sum.SampleCount, ShouldEqual, 2)
		})

		Convey("A phase with zero frames reports zero fraction", func() {
			sum := NewSampler(tr).Summarize()
			So(sum.InWindowFraction, ShouldEqual, 0)
			So(sum.MeanError, ShouldEqual, float64(NoSampleError))
		})
	})
}

func TestTrajectoryBounds(t *testing.T) {
	Convey("The dot never leaves the amplitude envelope", t, func() {
		tr := testTrajectory()
		for i := 0; i < 1000; i++ {
			_, y := tr.TargetAt(float64(i) * 0.012)
			So(y, ShouldBeBetweenOrEqual, 100, 500)
		}
		So(math.Abs(tr.Tolerance()-80), ShouldBeLessThan, 1e-9)
	})
}
