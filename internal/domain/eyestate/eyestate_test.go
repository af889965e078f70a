package eyestate_test

import (
	"testing"

	"github.com/okian/oculo/internal/domain/eyestate"
	"github.com/okian/oculo/internal/domain/landmark"
	. "github.com/smartystreets/goconvey/convey"
)

// lidPoints builds a symmetric 6-point lid set with the given vertical gaps
// and horizontal width.
func lidPoints(width, gap float64) []landmark.Point {
	return []landmark.Point{
		{X: 0, Y: 0},                  // outer corner
		{X: width * 0.3, Y: -gap / 2}, // upper lid
		{X: width * 0.6, Y: -gap / 2}, // upper-lid mid
		{X: width, Y: 0},              // inner corner
		{X: width * 0.6, Y: gap / 2},  // lower-lid mid
		{X: width * 0.3, Y: gap / 2},  // lower lid
	}
}

func TestOpenness(t *testing.T) {
	Convey("Given eye lid landmarks", t, func() {
		Convey("When both vertical gaps equal g and the width is w", func() {
			eye := lidPoints(100, 30)

			Convey("Then openness is (g+g)/(2w)", func() {
				So(eyestate.Openness(eye), ShouldAlmostEqual, 0.3, 1e-9)
			})
		})

		Convey("When fewer than 6 points are supplied", func() {
			eye := lidPoints(100, 30)[:4]

			Convey("Then the neutral open constant is returned", func() {
				So(eyestate.Openness(eye), ShouldEqual, eyestate.NeutralOpenness)
			})
		})

		Convey("When the horizontal eye width is zero", func() {
			eye := []landmark.Point{
				{X: 5, Y: 0}, {X: 5, Y: -10}, {X: 5, Y: -8},
				{X: 5, Y: 0}, {X: 5, Y: 8}, {X: 5, Y: 10},
			}

			Convey("Then the degenerate-geometry fallback of zero is returned", func() {
				So(eyestate.Openness(eye), ShouldEqual, 0.0)
			})
		})

		Convey("When the eye is fully closed", func() {
			eye := lidPoints(100, 0)

			Convey("Then openness is zero", func() {
				So(eyestate.Openness(eye), ShouldEqual, 0.0)
			})
		})
	})
}

func TestAverageOpenness(t *testing.T) {
	Convey("Given a frame with asymmetric eyes", t, func() {
		f := &landmark.Frame{
			LeftEyeLid:  lidPoints(100, 40), // 0.4
			RightEyeLid: lidPoints(100, 20), // 0.2
		}

		Convey("Then the two-eye average is used", func() {
			So(eyestate.AverageOpenness(f), ShouldAlmostEqual, 0.3, 1e-9)
		})
	})
}

func TestEyeCenter(t *testing.T) {
	Convey("Given contour points", t, func() {
		Convey("When points are supplied", func() {
			pts := []landmark.Point{{X: 0, Y: 0}, {X: 10, Y: 20}, {X: 20, Y: 40}}
			c, ok := eyestate.EyeCenter(pts)

			Convey("Then the arithmetic mean is returned", func() {
				So(ok, ShouldBeTrue)
				So(c.X, ShouldAlmostEqual, 10)
				So(c.Y, ShouldAlmostEqual, 20)
			})
		})

		Convey("When the input is empty", func() {
			_, ok := eyestate.EyeCenter(nil)

			Convey("Then no center is produced", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestGazeCenter(t *testing.T) {
	Convey("Given a frame with both contours", t, func() {
		f := &landmark.Frame{
			LeftEyeContour:  []landmark.Point{{X: 100, Y: 200}},
			RightEyeContour: []landmark.Point{{X: 300, Y: 200}},
		}

		c, ok := eyestate.GazeCenter(f)
		So(ok, ShouldBeTrue)
		So(c.X, ShouldAlmostEqual, 200)
		So(c.Y, ShouldAlmostEqual, 200)

		Convey("When one contour is missing", func() {
			f.RightEyeContour = nil
			_, ok := eyestate.GazeCenter(f)

			Convey("Then no gaze center is produced", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestGazeOffsetAndRescale(t *testing.T) {
	Convey("Given a gaze center and a reference point", t, func() {
		So(eyestate.GazeOffset(landmark.Point{X: 3, Y: 4}, landmark.Point{}), ShouldAlmostEqual, 5)
		So(eyestate.GazeOffset(landmark.Point{X: 7, Y: 7}, landmark.Point{X: 7, Y: 7}), ShouldEqual, 0)
	})

	Convey("Given a webcam point rescaled to stimulus space", t, func() {
		p := eyestate.Rescale(landmark.Point{X: 320, Y: 240}, 640, 480, 800, 600)
		So(p.X, ShouldAlmostEqual, 400)
		So(p.Y, ShouldAlmostEqual, 300)

		Convey("When the frame dimensions are degenerate", func() {
			p := eyestate.Rescale(landmark.Point{X: 320, Y: 240}, 0, 0, 800, 600)

			Convey("Then the point passes through unchanged", func() {
				So(p.X, ShouldEqual, 320)
				So(p.Y, ShouldEqual, 240)
			})
		})
	})
}
