package screening

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/oculo/internal/domain/model"
)

func TestBlinkRate(t *testing.T) {
	Convey("Given a phase summary", t, func() {
		Convey("The rate is blinks per minute", func() {
			p := model.PhaseSummary{BlinkCount: 4, DurationSeconds: 8}
			So(BlinkRate(p), ShouldAlmostEqual, 30, 1e-9)
		})

		Convey("A zero-length phase has no rate", func() {
			p := model.PhaseSummary{BlinkCount: 4}
			So(BlinkRate(p), ShouldEqual, 0)
		})
	})
}

func TestGazeThreshold(t *testing.T) {
	Convey("Given baseline gaze samples", t, func() {
		Convey("A wide scatter raises the threshold above the floor", func() {
			baseline := model.PhaseSummary{GazeDistances: []float64{50, 150, 250}}
			// mean 150, std ~81.65 -> ~313.3
			So(GazeThreshold(baseline), ShouldAlmostEqual, 313.3, 0.1)
		})

		Convey("A steady baseline is floored", func() {
			baseline := model.PhaseSummary{GazeDistances: []float64{10, 12, 11, 10}}
			So(GazeThreshold(baseline), ShouldEqual, 100)
		})

		Convey("No samples falls back to the floor", func() {
			So(GazeThreshold(model.PhaseSummary{}), ShouldEqual, 100)
		})
	})
}

func TestDerive(t *testing.T) {
	Convey("Given baseline and flicker summaries", t, func() {
		baseline := model.PhaseSummary{
			BlinkCount:       2,
			DurationSeconds:  8,
			EyeClosedSeconds: 0.4,
			GazeDistances:    []float64{20, 30, 25, 22},
		}
		flicker := model.PhaseSummary{
			BlinkCount:       10,
			DurationSeconds:  15,
			EyeClosedSeconds: 2.6,
			GazeDistances:    []float64{20, 180, 190, 25},
		}

		Convey("Rates and delta come out per minute", func() {
			m := Derive(baseline, flicker)
			So(m.BaselineBlinkRate, ShouldAlmostEqual, 15, 1e-9)
			So(m.FlickerBlinkRate, ShouldAlmostEqual, 40, 1e-9)
			So(m.BlinkRateDelta, ShouldAlmostEqual, 25, 1e-9)
		})

		Convey("Eye closure is pooled over both phases", func() {
			m := Derive(baseline, flicker)
			So(m.EyeClosedFraction, ShouldAlmostEqual, 3.0/23.0, 1e-9)
		})

		Convey("Gaze aversion counts samples beyond the calibrated threshold", func() {
			// Baseline scatter is tight so the floor of 100 applies; the
			// two flicker samples at 180 and 190 are off-target.
			m := Derive(baseline, flicker)
			So(m.GazeOffFraction, ShouldAlmostEqual, 2.0/8.0, 1e-9)
		})

		Convey("Empty summaries derive to zeros", func() {
			m := Derive(model.PhaseSummary{}, model.PhaseSummary{})
			So(m.BaselineBlinkRate, ShouldEqual, 0)
			So(m.EyeClosedFraction, ShouldEqual, 0)
			So(m.GazeOffFraction, ShouldEqual, 0)
		})
	})
}
