// Package screening derives cross-phase metrics from the per-phase
// summaries: blink rates, eye-closure fraction, and gaze-aversion fraction
// against a baseline-calibrated threshold.
package screening

import (
	"math"

	"github.com/okian/oculo/internal/domain/model"
)

const (
	// secondsPerMinute converts blink counts into per-minute rates.
	secondsPerMinute = 60

	// minGazeThreshold floors the aversion threshold so jitter on very
	// steady baselines never counts as looking away.
	minGazeThreshold = 100

	// gazeStdMultiplier places the aversion threshold two standard
	// deviations beyond the subject's own baseline scatter.
	gazeStdMultiplier = 2
)

// BlinkRate converts a phase blink count into blinks per minute. A phase
// with no elapsed time has no rate.
func BlinkRate(p model.PhaseSummary) float64 {
	if p.DurationSeconds <= 0 {
		return 0
	}
	return float64(p.BlinkCount) / p.DurationSeconds * secondsPerMinute
}

// GazeThreshold calibrates the aversion distance from the subject's own
// baseline gaze scatter. With no baseline samples the floor applies.
func GazeThreshold(baseline model.PhaseSummary) float64 {
	if len(baseline.GazeDistances) == 0 {
		return minGazeThreshold
	}
	mean, std := meanStd(baseline.GazeDistances)
	return math.Max(minGazeThreshold, mean+gazeStdMultiplier*std)
}

// Derive computes the cross-phase metrics the risk rules consume.
func Derive(baseline, flicker model.PhaseSummary) model.Metrics {
	m := model.Metrics{
		BaselineBlinkRate: BlinkRate(baseline),
		FlickerBlinkRate:  BlinkRate(flicker),
	}
	m.BlinkRateDelta = m.FlickerBlinkRate - m.BaselineBlinkRate

	if total := baseline.DurationSeconds + flicker.DurationSeconds; total > 0 {
		m.EyeClosedFraction = (baseline.EyeClosedSeconds + flicker.EyeClosedSeconds) / total
	}

	threshold := GazeThreshold(baseline)
	var off, samples int
	for _, phase := range []model.PhaseSummary{baseline, flicker} {
		for _, d := range phase.GazeDistances {
			samples++
			if d > threshold {
				off++
			}
		}
	}
	if samples > 0 {
		m.GazeOffFraction = float64(off) / float64(samples)
	}
	return m
}

func meanStd(values []float64) (mean, std float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	var varSum float64
	for _, v := range values {
		d := v - mean
		varSum += d * d
	}
	return mean, math.Sqrt(varSum / float64(len(values)))
}
