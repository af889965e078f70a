package summary

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/oculo/internal/domain/model"
)

func TestPrompt(t *testing.T) {
	Convey("Given a completed report", t, func() {
		r := &model.Report{
			Metrics: &model.Metrics{
				BaselineBlinkRate: 16.5,
				FlickerBlinkRate:  25.0,
				BlinkRateDelta:    8.5,
				EyeClosedFraction: 0.12,
				GazeOffFraction:   0.33,
			},
			Symptoms: model.Symptoms{Headache: true, LightSensitivity: true},
			Assessment: &model.RiskAssessment{
				RiskScore: 5,
				RiskLevel: model.RiskModerate,
			},
		}

		Convey("The prompt carries the metrics in human units", func() {
			p := Prompt(r)
			So(p, ShouldContainSubstring, "Baseline blink rate: 16.50 blinks/min")
			So(p, ShouldContainSubstring, "Eye-closed fraction: 12.00%")
			So(p, ShouldContainSubstring, "Headache: Yes")
			So(p, ShouldContainSubstring, "Nausea: No")
			So(p, ShouldContainSubstring, "Level: MODERATE")
			So(p, ShouldContainSubstring, "Score: 5/10")
			So(p, ShouldContainSubstring, "NOT a diagnosis")
		})

		Convey("A skipped pursuit phase is stated rather than zeroed", func() {
			So(Prompt(r), ShouldContainSubstring, "Not performed.")
		})

		Convey("Pursuit numbers appear when the phase ran", func() {
			r.Pursuit = &model.PursuitSummary{MeanError: 42.3, ErrorStd: 15.1, InWindowFraction: 0.87}
			p := Prompt(r)
			So(p, ShouldContainSubstring, "mean error: 42.3 px")
			So(p, ShouldContainSubstring, "variance: 15.1")
			So(p, ShouldContainSubstring, "87.0%")
		})
	})
}
