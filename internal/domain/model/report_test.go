package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReportClone(t *testing.T) {
	Convey("Given a fully populated report", t, func() {
		now := time.Now()
		r := &Report{
			ID:       "a",
			Status:   StatusCompleted,
			Baseline: &PhaseSummary{Phase: "baseline", GazeDistances: []float64{1, 2}, Warnings: []string{"w"}},
			Flicker:  &PhaseSummary{Phase: "flicker"},
			Pursuit:  &PursuitSummary{MeanError: 42},
			Metrics:  &Metrics{BaselineBlinkRate: 16},
			Assessment: &RiskAssessment{
				RiskScore:   3,
				RiskLevel:   RiskLow,
				RiskFactors: []string{"x"},
			},
			StartedAt:  now,
			FinishedAt: &now,
		}

		Convey("Clone shares no memory with the original", func() {
			c := r.Clone()
			c.Status = StatusFailed
			c.Baseline.GazeDistances[0] = 99
			c.Baseline.Warnings[0] = "changed"
			c.Pursuit.MeanError = 0
			c.Metrics.BaselineBlinkRate = 0
			c.Assessment.RiskFactors[0] = "y"
			*c.FinishedAt = now.Add(time.Hour)

			So(r.Status, ShouldEqual, StatusCompleted)
			So(r.Baseline.GazeDistances[0], ShouldEqual, 1)
			So(r.Baseline.Warnings[0], ShouldEqual, "w")
			So(r.Pursuit.MeanError, ShouldEqual, 42)
			So(r.Metrics.BaselineBlinkRate, ShouldEqual, 16)
			So(r.Assessment.RiskFactors[0], ShouldEqual, "x")
			So(r.FinishedAt.Equal(now), ShouldBeTrue)
		})

		Convey("Cloning a sparse report keeps its nil fields nil", func() {
			c := (&Report{ID: "b", Status: StatusPending}).Clone()
			So(c.Baseline, ShouldBeNil)
			So(c.Pursuit, ShouldBeNil)
			So(c.Assessment, ShouldBeNil)
			So(c.FinishedAt, ShouldBeNil)
		})

		Convey("A nil report clones to nil", func() {
			var nilReport *Report
			So(nilReport.Clone(), ShouldBeNil)
		})
	})
}

func TestReportSerialization(t *testing.T) {
	Convey("Given a pending report that has not finished", t, func() {
		r := &Report{ID: "a", Status: StatusPending, StartedAt: time.Now()}

		Convey("finished_at is omitted from the JSON", func() {
			raw, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(strings.Contains(string(raw), "finished_at"), ShouldBeFalse)
		})
	})
}
