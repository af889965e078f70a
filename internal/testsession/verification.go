package testsession

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// displayReport prints the results block of a completed screening.
func displayReport(r *report, verbose bool) {
	divider := strings.Repeat("=", 50)

	log.Println(divider)
	log.Println("SCREENING RESULTS")
	log.Println(divider)

	if r.Metrics != nil {
		log.Printf("Baseline blink rate      : %.2f blinks/min", r.Metrics.BaselineBlinkRate)
		log.Printf("Flicker blink rate       : %.2f blinks/min", r.Metrics.FlickerBlinkRate)
		log.Printf("Blink rate increase      : %.2f blinks/min", r.Metrics.BlinkRateDelta)
		log.Printf("Eye-closed fraction      : %.2f%%", r.Metrics.EyeClosedFraction*PercentageMultiplier)
		log.Printf("Gaze-off-center fraction : %.2f%%", r.Metrics.GazeOffFraction*PercentageMultiplier)
	}
	if r.Pursuit != nil {
		log.Printf("Smooth pursuit mean error: %.1f px", r.Pursuit.MeanError)
		log.Printf("Smooth pursuit error std : %.1f", r.Pursuit.ErrorStd)
		log.Printf("SP%% (in tracking window) : %.1f%%", r.Pursuit.InWindowFraction*PercentageMultiplier)
	}

	if r.Assessment != nil {
		log.Println(divider)
		log.Printf("RISK LEVEL: %s", r.Assessment.RiskLevel)
		log.Printf("Risk Score: %d/10", r.Assessment.RiskScore)
		if len(r.Assessment.RiskFactors) > 0 {
			log.Println("Risk factors identified:")
			for i, factor := range r.Assessment.RiskFactors {
				log.Printf("   %d. %s", i+1, factor)
			}
		} else {
			log.Println("No strong risk factors detected by this screening.")
		}
		log.Printf("Recommendation: %s", r.Assessment.Recommendation)
	}

	if r.Summary != "" {
		log.Println(divider)
		log.Println("AI SUMMARY")
		log.Println(r.Summary)
	}

	if verbose {
		displayPhase("baseline", r.Baseline)
		displayPhase("flicker", r.Flicker)
	}
}

// displayPhase prints per-phase diagnostics.
func displayPhase(name string, p *phaseSummary) {
	if p == nil {
		return
	}

	log.Printf("[%s] frames: %d, face detected: %.1f%%, blinks: %d, closed: %.2fs, avg openness: %.3f",
		name, p.FrameCount, p.FaceDetectionRate*PercentageMultiplier, p.BlinkCount, p.EyeClosedSeconds, p.AvgOpenness)
	for _, w := range p.Warnings {
		log.Printf("[%s] warning: %s", name, w)
	}
}

// verifyAssessment replays the report's measurements through the stateless
// assessment endpoint and compares the scores.
func verifyAssessment(ctx context.Context, client *HTTPClient, config *Config, r *report, stats *Stats) error {
	if r.Metrics == nil || r.Assessment == nil {
		return fmt.Errorf("report %s has no metrics or assessment", r.ID)
	}

	body := assessmentRequest{
		Metrics:  r.Metrics,
		Pursuit:  r.Pursuit,
		Symptoms: r.Symptoms,
	}

	resp, err := client.Post(ctx, config.BaseURL+"/assessments", body)
	if err != nil {
		return fmt.Errorf("failed to post assessment: %w", err)
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read assessment: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("assessment failed with status %d: %s", resp.StatusCode, string(data))
	}

	var replayed reportAssessment
	if err := unmarshalJSON(data, &replayed); err != nil {
		return fmt.Errorf("failed to parse assessment: %w", err)
	}

	stats.AssessmentChecks++
	if replayed.RiskScore != r.Assessment.RiskScore || replayed.RiskLevel != r.Assessment.RiskLevel {
		stats.AssessmentMismatches++
		log.Printf("assessment mismatch for %s: stored %d/%s, replayed %d/%s",
			r.ID, r.Assessment.RiskScore, r.Assessment.RiskLevel, replayed.RiskScore, replayed.RiskLevel)
		return nil
	}

	log.Printf("assessment verified for %s: %d/%s", r.ID, replayed.RiskScore, replayed.RiskLevel)
	return nil
}
