package referral

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/oculo/internal/domain/model"
)

func completedReport() *model.Report {
	return &model.Report{
		Metrics: &model.Metrics{
			BaselineBlinkRate: 16.0,
			FlickerBlinkRate:  28.5,
			EyeClosedFraction: 0.12,
			GazeOffFraction:   0.35,
		},
		Symptoms: model.Symptoms{Headache: true, Dizziness: true},
		Assessment: &model.RiskAssessment{
			RiskScore: 6,
			RiskLevel: model.RiskModerate,
		},
	}
}

func TestCompose(t *testing.T) {
	Convey("Given a completed report", t, func() {
		r := completedReport()

		Convey("The draft carries symptoms, metrics and the risk line", func() {
			d, err := Compose(r, "Alex Doe")
			So(err, ShouldBeNil)
			So(d.Subject, ShouldEqual, DefaultSubject)
			So(d.Body, ShouldContainSubstring, "Symptoms: headache, dizziness")
			So(d.Body, ShouldContainSubstring, "16.0 -> 28.5 blinks/min")
			So(d.Body, ShouldContainSubstring, "Risk: MODERATE (6/10)")
			So(d.Body, ShouldContainSubstring, "Alex Doe")
			So(d.Body, ShouldContainSubstring, "not a diagnosis")
		})

		Convey("No name leaves a placeholder signature", func() {
			d, err := Compose(r, "")
			So(err, ShouldBeNil)
			So(d.Body, ShouldContainSubstring, "[Your Name]")
		})

		Convey("No symptoms reads as none reported", func() {
			r.Symptoms = model.Symptoms{}
			d, err := Compose(r, "")
			So(err, ShouldBeNil)
			So(d.Body, ShouldContainSubstring, "Symptoms: none reported")
		})

		Convey("A skipped pursuit shows N/A tracking error", func() {
			d, err := Compose(r, "")
			So(err, ShouldBeNil)
			So(d.Body, ShouldContainSubstring, "Tracking error: N/A")

			r.Pursuit = &model.PursuitSummary{MeanError: 42.3}
			d, err = Compose(r, "")
			So(err, ShouldBeNil)
			So(d.Body, ShouldContainSubstring, "Tracking error: 42.3 px")
		})

		Convey("An incomplete report is rejected", func() {
			_, err := Compose(&model.Report{}, "")
			So(err, ShouldEqual, ErrIncompleteReport)
			_, err = Compose(nil, "")
			So(err, ShouldEqual, ErrIncompleteReport)
		})
	})
}
