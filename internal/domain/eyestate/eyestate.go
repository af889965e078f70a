// Package eyestate converts raw eye landmarks into the two per-frame scalars
// the pipeline runs on: an eye-openness ratio and a gaze offset.
package eyestate

import (
	"math"

	"github.com/okian/oculo/internal/domain/landmark"
)

const (
	// NeutralOpenness is returned when too few lid points are supplied.
	// Treating the eye as open biases against counting spurious blinks.
	NeutralOpenness = 0.3

	// closedOpenness is returned on a degenerate zero-width eye, where the
	// ratio cannot be computed. Note the fail-safe direction differs from
	// the too-few-points case; kept as-is from the reference protocol.
	closedOpenness = 0.0
)

// Openness computes the eye-openness ratio (EAR, after Soukupova & Cech 2016)
// from 6 ordered lid points: outer corner, upper lid, upper-lid mid, inner
// corner, lower-lid mid, lower lid.
func Openness(eye []landmark.Point) float64 {
	if len(eye) < landmark.EyeLidPointCount {
		return NeutralOpenness
	}

	v1 := dist(eye[1], eye[5]) // upper lid to lower lid
	v2 := dist(eye[2], eye[4]) // upper-lid mid to lower-lid mid
	h := dist(eye[0], eye[3])

	if h == 0 {
		return closedOpenness
	}
	return (v1 + v2) / (2.0 * h)
}

// AverageOpenness computes the two-eye average openness for a frame.
func AverageOpenness(f *landmark.Frame) float64 {
	return (Openness(f.LeftEyeLid) + Openness(f.RightEyeLid)) / 2.0
}

// EyeCenter returns the arithmetic mean of the supplied points. The second
// return value is false when the input is empty.
func EyeCenter(points []landmark.Point) (landmark.Point, bool) {
	if len(points) == 0 {
		return landmark.Point{}, false
	}
	var sx, sy float64
	for _, p := range points {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(points))
	return landmark.Point{X: sx / n, Y: sy / n}, true
}

// GazeCenter averages the two eye-contour centers into a single gaze point.
// The second return value is false when either contour is empty.
func GazeCenter(f *landmark.Frame) (landmark.Point, bool) {
	left, lok := EyeCenter(f.LeftEyeContour)
	right, rok := EyeCenter(f.RightEyeContour)
	if !lok || !rok {
		return landmark.Point{}, false
	}
	return landmark.Point{X: (left.X + right.X) / 2.0, Y: (left.Y + right.Y) / 2.0}, true
}

// GazeOffset is the Euclidean distance between a gaze center and a reference
// point. Larger offsets mean looking further away from the reference.
func GazeOffset(center, reference landmark.Point) float64 {
	return dist(center, reference)
}

// Rescale maps a point from webcam pixel coordinates into the stimulus
// coordinate space: coordinate / webcam dimension * stimulus dimension.
func Rescale(p landmark.Point, frameW, frameH, stimW, stimH int) landmark.Point {
	if frameW <= 0 || frameH <= 0 {
		return p
	}
	return landmark.Point{
		X: p.X / float64(frameW) * float64(stimW),
		Y: p.Y / float64(frameH) * float64(stimH),
	}
}

func dist(a, b landmark.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
