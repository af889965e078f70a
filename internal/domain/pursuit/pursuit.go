// Package pursuit models the smooth-pursuit stimulus trajectory and
// aggregates per-frame tracking error against it.
package pursuit

import (
	"math"

	"github.com/okian/oculo/internal/domain/model"
)

// NoSampleError is the sentinel reported for mean and standard deviation
// when a pursuit phase produced no usable error samples.
const NoSampleError = 999

// Trajectory is the sinusoidal path the pursuit dot follows in stimulus
// coordinates: fixed x, y oscillating around the vertical center.
type Trajectory struct {
	centerX   float64
	centerY   float64
	amplitude float64
	frequency float64
	tolerance float64
}

// NewTrajectory builds a pursuit trajectory. Frequency is in Hz, amplitude
// and tolerance in stimulus pixels.
func NewTrajectory(centerX, centerY, amplitude, frequency, tolerance float64) Trajectory {
	return Trajectory{
		centerX:   centerX,
		centerY:   centerY,
		amplitude: amplitude,
		frequency: frequency,
		tolerance: tolerance,
	}
}

// TargetAt returns the dot position at elapsed time t seconds.
func (tr Trajectory) TargetAt(t float64) (x, y float64) {
	return tr.centerX, tr.centerY + tr.amplitude*math.Sin(2*math.Pi*tr.frequency*t)
}

// Tolerance returns the in-window radius in stimulus pixels.
func (tr Trajectory) Tolerance() float64 {
	return tr.tolerance
}

// Sampler accumulates gaze-versus-target error over a pursuit phase. Frames
// without a detected gaze count toward the total but contribute no error
// sample, which penalizes the in-window fraction.
type Sampler struct {
	trajectory Trajectory
	errors     []float64
	inWindow   int
	frameCount int
}

// NewSampler creates a Sampler for the given trajectory.
func NewSampler(tr Trajectory) *Sampler {
	return &Sampler{trajectory: tr}
}

// ObserveMiss records a frame where no gaze position was available.
func (s *Sampler) ObserveMiss() {
	s.frameCount++
}

// Observe records the gaze position in stimulus coordinates for one frame at
// elapsed time t seconds.
func (s *Sampler) Observe(gazeX, gazeY, t float64) {
	s.frameCount++
	tx, ty := s.trajectory.TargetAt(t)
	err := math.Hypot(gazeX-tx, gazeY-ty)
	s.errors = append(s.errors, err)
	if err < s.trajectory.Tolerance() {
		s.inWindow++
	}
}

// Summarize emits the pursuit summary. SampleCount covers every frame,
// detected or not. With no error samples the mean and standard deviation
// carry the sentinel value so downstream scoring treats the phase as
// untrackable rather than perfect.
func (s *Sampler) Summarize() model.PursuitSummary {
	out := model.PursuitSummary{SampleCount: s.frameCount}

	if len(s.errors) == 0 {
		out.MeanError = NoSampleError
		out.ErrorStd = NoSampleError
		out.InWindowFraction = 0
		return out
	}

	var sum float64
	for _, e := range s.errors {
		sum += e
	}
	mean := sum / float64(len(s.errors))

	var varSum float64
	for _, e := range s.errors {
		d := e - mean
		varSum += d * d
	}

	out.MeanError = mean
	out.ErrorStd = math.Sqrt(varSum / float64(len(s.errors)))
	if s.frameCount > 0 {
		out.InWindowFraction = float64(s.inWindow) / float64(s.frameCount)
	}
	return out
}
