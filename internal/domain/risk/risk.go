// Package risk scores the derived screening metrics with a fixed, ordered
// set of rules and maps the total onto a recommendation tier. The rules are
// deterministic so the same inputs always produce the same assessment.
package risk

import (
	"fmt"

	"github.com/okian/oculo/internal/domain/model"
)

// Rule thresholds.
const (
	// minBaselineBlinkRate below which the baseline is considered a
	// measurement artifact and blink comparison is skipped entirely.
	minBaselineBlinkRate = 5.0

	// flickerRateMultiplier marks a large blink rate increase when the
	// flicker rate exceeds this multiple of baseline.
	flickerRateMultiplier = 1.5

	// moderateRateDelta marks a moderate increase in blinks per minute.
	moderateRateDelta = 10.0

	highClosureFraction     = 0.15
	elevatedClosureFraction = 0.10

	frequentGazeFraction = 0.50
	moderateGazeFraction = 0.30

	poorPursuitFraction       = 0.60
	borderlinePursuitFraction = 0.75
	highPursuitStd            = 150.0
)

// Tier cutoffs on the additive score.
const (
	highScore     = 7
	moderateScore = 4
	lowScore      = 2
)

// Recommendation texts per tier.
const (
	recommendationHigh     = "URGENT: Consult a healthcare professional as soon as possible. Several objective signs AND symptoms suggest possible concussion-related issues."
	recommendationModerate = "RECOMMENDED: Seek medical evaluation. There are meaningful indicators of light sensitivity and/or oculomotor dysfunction that could be concussion-related."
	recommendationLow      = "MONITOR: Mild indicators present. Monitor symptoms over time and seek care if they persist or worsen."
	recommendationMinimal  = "No strong indicators detected in this screening. This does NOT rule out concussion; monitor how you feel and seek care if concerned."
)

// Assess applies the rule set to the derived metrics, the optional pursuit
// summary, and the reported symptoms. A nil pursuit means the phase was
// skipped and its rules do not fire.
func Assess(m model.Metrics, pursuit *model.PursuitSummary, symptoms model.Symptoms) model.RiskAssessment {
	var score int
	var factors []string

	// Blink rate comparison. An implausibly low baseline is reported as an
	// artifact instead of being scored against.
	switch {
	case m.BaselineBlinkRate < minBaselineBlinkRate:
		factors = append(factors, "Very low baseline blink rate (possible measurement artifact).")
	case m.FlickerBlinkRate > flickerRateMultiplier*m.BaselineBlinkRate:
		score += 2
		factors = append(factors, fmt.Sprintf("Large blink rate increase during flicker (%.1f blinks/min).", m.BlinkRateDelta))
	case m.BlinkRateDelta > moderateRateDelta:
		score++
		factors = append(factors, "Moderate blink rate increase during flicker.")
	}

	// Eye closure.
	switch {
	case m.EyeClosedFraction > highClosureFraction:
		score += 2
		factors = append(factors, fmt.Sprintf("High eye-closure time (%.1f%%) – possible light avoidance.", m.EyeClosedFraction*100))
	case m.EyeClosedFraction > elevatedClosureFraction:
		score++
		factors = append(factors, "Elevated eye-closure time during test.")
	}

	// Gaze aversion.
	switch {
	case m.GazeOffFraction > frequentGazeFraction:
		score += 2
		factors = append(factors, fmt.Sprintf("Frequent gaze aversion (%.1f%%) – often looking away from stimulus.", m.GazeOffFraction*100))
	case m.GazeOffFraction > moderateGazeFraction:
		score++
		factors = append(factors, "Moderate gaze aversion detected.")
	}

	// Smooth pursuit. Accuracy and variance are scored independently.
	if pursuit != nil {
		switch {
		case pursuit.InWindowFraction < poorPursuitFraction:
			score += 2
			factors = append(factors, fmt.Sprintf("Poor smooth pursuit (%% within window = %.1f%%).", pursuit.InWindowFraction*100))
		case pursuit.InWindowFraction < borderlinePursuitFraction:
			score++
			factors = append(factors, fmt.Sprintf("Borderline smooth pursuit tracking (%.1f%%).", pursuit.InWindowFraction*100))
		}
		if pursuit.ErrorStd > highPursuitStd {
			score++
			factors = append(factors, fmt.Sprintf("High pursuit error variance (%.1f).", pursuit.ErrorStd))
		}
	}

	// Self-reported symptoms.
	switch n := symptoms.Count(); {
	case n >= 3:
		score += 3
		factors = append(factors, fmt.Sprintf("Multiple symptoms reported (%d/4).", n))
	case n == 2:
		score += 2
		factors = append(factors, "Some concussion-like symptoms reported.")
	case n == 1:
		score++
		factors = append(factors, "One concussion-like symptom reported.")
	}

	level, recommendation := tier(score)
	return model.RiskAssessment{
		RiskScore:      score,
		RiskLevel:      level,
		RiskFactors:    factors,
		Recommendation: recommendation,
	}
}

func tier(score int) (level, recommendation string) {
	switch {
	case score >= highScore:
		return model.RiskHigh, recommendationHigh
	case score >= moderateScore:
		return model.RiskModerate, recommendationModerate
	case score >= lowScore:
		return model.RiskLow, recommendationLow
	default:
		return model.RiskMinimal, recommendationMinimal
	}
}
