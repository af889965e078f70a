// Package blink accumulates the per-frame eye-openness stream for one
// collection phase: edge-triggered blink counting with an adaptive threshold,
// closed-eye time, and gaze-offset samples.
package blink

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/oculo/internal/domain/model"
)

// Default blink detection constants.
const (
	// DefaultThreshold is the fixed openness threshold used until enough
	// samples exist for the adaptive one.
	DefaultThreshold = 0.25

	// DefaultDebounceFrames is the number of consecutive below-threshold
	// frames required before the closed transition fires.
	DefaultDebounceFrames = 2

	// thresholdFloor is the lower bound of the adaptive threshold.
	thresholdFloor = 0.20

	// thresholdScale scales the rolling baseline openness into a closed
	// threshold: below 70% of your own open-eye baseline counts as closed.
	thresholdScale = 0.70

	// windowCapacity bounds the rolling openness window.
	windowCapacity = 30

	// minAdaptiveSamples is the observation count at which the adaptive
	// threshold takes over from the fixed default.
	minAdaptiveSamples = 11
)

// Validation thresholds for phase reliability warnings.
const (
	minFaceDetectionRate = 0.50
	minPlausibleOpenness = 0.1
	maxPlausibleOpenness = 0.5
	minGazeSampleRatio   = 0.30
)

// window is a fixed-capacity ring of recent openness samples.
type window struct {
	samples [windowCapacity]float64
	next    int
	size    int
}

func (w *window) push(v float64) {
	w.samples[w.next] = v
	w.next = (w.next + 1) % windowCapacity
	if w.size < windowCapacity {
		w.size++
	}
}

func (w *window) mean() float64 {
	if w.size == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < w.size; i++ {
		sum += w.samples[i]
	}
	return sum / float64(w.size)
}

// Accumulator runs the two-state blink automaton over one phase. It is not
// safe for concurrent use; callers feed it from a single frame loop.
type Accumulator struct {
	phase           string
	durationSeconds float64
	baseThreshold   float64
	debounceFrames  int

	// Automaton state. The debounce is asymmetric: slow to declare closed,
	// instant to declare open, so single-frame dips never count as blinks.
	eyesClosed bool
	belowCount int

	blinkCount    int
	closedSeconds float64
	gazeDistances []float64

	win         window
	sampleCount int
	opennessSum float64
	opennessMin float64
	opennessMax float64
	frameCount  int
	faceCount   int
}

// New creates an Accumulator for a phase with the given nominal duration.
func New(phase string, durationSeconds float64, opts ...Option) *Accumulator {
	a := &Accumulator{
		phase:           phase,
		durationSeconds: durationSeconds,
		baseThreshold:   DefaultThreshold,
		debounceFrames:  DefaultDebounceFrames,
		opennessMin:     math.Inf(1),
		opennessMax:     math.Inf(-1),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the openness threshold in effect for the next frame:
// the fixed default until minAdaptiveSamples observations exist, then
// max(floor, scale * rolling mean).
func (a *Accumulator) Threshold() float64 {
	if a.sampleCount < minAdaptiveSamples {
		return a.baseThreshold
	}
	return math.Max(thresholdFloor, thresholdScale*a.win.mean())
}

// EyesClosed reports the current automaton state.
func (a *Accumulator) EyesClosed() bool {
	return a.eyesClosed
}

// BlinkCount returns the blinks counted so far.
func (a *Accumulator) BlinkCount() int {
	return a.blinkCount
}

// ObserveMiss records a frame where the oracle found no face. The frame
// counts toward the total but contributes no openness or gaze sample.
func (a *Accumulator) ObserveMiss() {
	a.frameCount++
}

// Observe consumes one detected-face frame: the two-eye average openness,
// the gaze offset (gazeOK false when no gaze center could be computed), and
// the wall-clock duration of the frame.
func (a *Accumulator) Observe(openness, gazeOffset float64, gazeOK bool, frameDur time.Duration) {
	a.frameCount++
	a.faceCount++

	a.sampleCount++
	a.opennessSum += openness
	a.opennessMin = math.Min(a.opennessMin, openness)
	a.opennessMax = math.Max(a.opennessMax, openness)
	a.win.push(openness)

	threshold := a.Threshold()

	if openness < threshold {
		a.belowCount++
		if !a.eyesClosed && a.belowCount >= a.debounceFrames {
			// Count exactly once at the transition edge.
			a.blinkCount++
			a.eyesClosed = true
		}
		if a.eyesClosed {
			a.closedSeconds += frameDur.Seconds()
		}
	} else {
		a.belowCount = 0
		a.eyesClosed = false
	}

	if gazeOK {
		a.gazeDistances = append(a.gazeDistances, gazeOffset)
	}
}

// Summarize closes the phase and emits its immutable summary with advisory
// validation warnings. Warnings never alter the numeric output.
func (a *Accumulator) Summarize() model.PhaseSummary {
	var rate float64
	if a.frameCount > 0 {
		rate = float64(a.faceCount) / float64(a.frameCount)
	}

	var avg, minV, maxV float64
	if a.sampleCount > 0 {
		avg = a.opennessSum / float64(a.sampleCount)
		minV = a.opennessMin
		maxV = a.opennessMax
	}

	valid := true
	var warnings []string

	if rate < minFaceDetectionRate {
		valid = false
		warnings = append(warnings, fmt.Sprintf("low face detection rate (%.1f%%); results may be unreliable", rate*100))
	}
	if a.sampleCount == 0 {
		valid = false
		warnings = append(warnings, "no openness samples recorded; eye tracking not working")
	} else if avg < minPlausibleOpenness || avg > maxPlausibleOpenness {
		warnings = append(warnings, fmt.Sprintf("unusual openness range (%.3f-%.3f); check lighting and positioning", minV, maxV))
	}
	if len(a.gazeDistances) == 0 {
		warnings = append(warnings, "no gaze measurements recorded")
	} else if float64(len(a.gazeDistances)) < float64(a.frameCount)*minGazeSampleRatio {
		warnings = append(warnings, fmt.Sprintf("only %d/%d gaze measurements; tracking may be incomplete", len(a.gazeDistances), a.frameCount))
	}

	gaze := make([]float64, len(a.gazeDistances))
	copy(gaze, a.gazeDistances)

	return model.PhaseSummary{
		Phase:             a.phase,
		BlinkCount:        a.blinkCount,
		EyeClosedSeconds:  a.closedSeconds,
		GazeDistances:     gaze,
		DurationSeconds:   a.durationSeconds,
		FrameCount:        a.frameCount,
		FaceDetectionRate: rate,
		AvgOpenness:       avg,
		MinOpenness:       minV,
		MaxOpenness:       maxV,
		Warnings:          warnings,
		Valid:             valid,
	}
}
