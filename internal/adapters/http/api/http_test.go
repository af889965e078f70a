package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/oculo/internal/adapters/referral"
	"github.com/okian/oculo/internal/adapters/repository"
	serviceapp "github.com/okian/oculo/internal/app"
	"github.com/okian/oculo/internal/domain/model"
	"github.com/okian/oculo/internal/domain/risk"
)

// mockDeps implements Dependencies over a map of reports.
type mockDeps struct {
	reports    map[string]*model.Report
	order      []string
	queueFull  bool
	sendEnable bool
	sentTo     string
}

func newMockDeps() *mockDeps {
	return &mockDeps{reports: make(map[string]*model.Report)}
}

func (m *mockDeps) StartScreening(ctx context.Context, symptoms model.Symptoms, skipPursuit bool) (string, error) {
	if m.queueFull {
		return "", serviceapp.ErrQueueFull
	}
	id := "screening-1"
	m.reports[id] = &model.Report{ID: id, Status: model.StatusPending, Symptoms: symptoms}
	m.order = append(m.order, id)
	return id, nil
}

func (m *mockDeps) Assess(ctx context.Context, metrics model.Metrics, p *model.PursuitSummary, symptoms model.Symptoms) model.RiskAssessment {
	return risk.Assess(metrics, p, symptoms)
}

func (m *mockDeps) GetReport(ctx context.Context, id string) (*model.Report, error) {
	r, ok := m.reports[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r, nil
}

func (m *mockDeps) RecentReports(ctx context.Context, limit int) ([]*model.Report, error) {
	out := make([]*model.Report, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.reports[m.order[i]])
	}
	return out, nil
}

func (m *mockDeps) ComposeReferral(ctx context.Context, id, userName string) (referral.Draft, error) {
	r, ok := m.reports[id]
	if !ok {
		return referral.Draft{}, repository.ErrNotFound
	}
	return referral.Compose(r, userName)
}

func (m *mockDeps) SendReferral(ctx context.Context, id, userName, to string) error {
	if !m.sendEnable {
		return serviceapp.ErrReferralDisabled
	}
	if _, err := m.ComposeReferral(ctx, id, userName); err != nil {
		return err
	}
	m.sentTo = to
	return nil
}

func (m *mockDeps) Stats(ctx context.Context) (int, int) {
	return 0, len(m.reports)
}

func newTestServer(deps Dependencies) *httptest.Server {
	mux := http.NewServeMux()
	NewServer(deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestAssessmentsEndpoint(t *testing.T) {
	Convey("Given the assessments endpoint", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("Valid measurements come back scored", func() {
			body := `{
				"metrics": {
					"baseline_blink_rate": 16,
					"flicker_blink_rate": 26,
					"blink_rate_delta": 10,
					"eye_closed_fraction": 0.20,
					"gaze_off_fraction": 0.55
				},
				"pursuit": {"in_window_fraction": 0.5, "error_std": 160},
				"symptoms": {"headache": true, "nausea": true, "dizziness": true}
			}`
			resp, err := http.Post(srv.URL+"/assessments", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var a model.RiskAssessment
			So(json.NewDecoder(resp.Body).Decode(&a), ShouldBeNil)
			So(a.RiskScore, ShouldEqual, 12)
			So(a.RiskLevel, ShouldEqual, model.RiskHigh)
		})

		Convey("Missing metrics are rejected", func() {
			resp, err := http.Post(srv.URL+"/assessments", "application/json", bytes.NewBufferString(`{"symptoms":{}}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Out-of-range fractions are rejected", func() {
			body := `{"metrics": {"eye_closed_fraction": 1.5}}`
			resp, err := http.Post(srv.URL+"/assessments", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON is rejected", func() {
			resp, err := http.Post(srv.URL+"/assessments", "application/json", bytes.NewBufferString(`{`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET is not routed", func() {
			resp, err := http.Get(srv.URL + "/assessments")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestScreeningsEndpoint(t *testing.T) {
	Convey("Given the screenings endpoints", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("Starting a screening returns 202 with an ID", func() {
			body := `{"symptoms": {"headache": true}}`
			resp, err := http.Post(srv.URL+"/screenings", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)

			var out startScreeningResponse
			So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
			So(out.ID, ShouldNotBeBlank)
			So(out.Status, ShouldEqual, "pending")

			Convey("and the report can be fetched by ID", func() {
				get, err := http.Get(srv.URL + "/screenings/" + out.ID)
				So(err, ShouldBeNil)
				defer get.Body.Close()
				So(get.StatusCode, ShouldEqual, http.StatusOK)

				var report model.Report
				So(json.NewDecoder(get.Body).Decode(&report), ShouldBeNil)
				So(report.ID, ShouldEqual, out.ID)
				So(report.Symptoms.Headache, ShouldBeTrue)
			})
		})

		Convey("A full queue returns 429", func() {
			deps.queueFull = true
			resp, err := http.Post(srv.URL+"/screenings", "application/json", bytes.NewBufferString(`{}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
		})

		Convey("An unknown report is a 404", func() {
			resp, err := http.Get(srv.URL + "/screenings/missing")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
		})

		Convey("Recent listing honors the limit parameter", func() {
			_, err := http.Post(srv.URL+"/screenings", "application/json", bytes.NewBufferString(`{}`))
			So(err, ShouldBeNil)

			resp, err := http.Get(srv.URL + "/screenings?limit=5")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var reports []*model.Report
			So(json.NewDecoder(resp.Body).Decode(&reports), ShouldBeNil)
			So(reports, ShouldHaveLength, 1)
		})

		Convey("A bad limit is rejected", func() {
			resp, err := http.Get(srv.URL + "/screenings?limit=0")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp2, err := http.Get(srv.URL + "/screenings?limit=1000")
			So(err, ShouldBeNil)
			defer resp2.Body.Close()
			So(resp2.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("WithMaxRecentLimit moves the limit cap", func() {
			mux := http.NewServeMux()
			NewServer(deps, WithMaxRecentLimit(5)).Register(context.Background(), mux)
			capped := httptest.NewServer(mux)
			defer capped.Close()

			resp, err := http.Get(capped.URL + "/screenings?limit=6")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			resp2, err := http.Get(capped.URL + "/screenings?limit=5")
			So(err, ShouldBeNil)
			defer resp2.Body.Close()
			So(resp2.StatusCode, ShouldEqual, http.StatusOK)
		})
	})
}

func TestReferralEndpoint(t *testing.T) {
	Convey("Given a completed report", t, func() {
		deps := newMockDeps()
		deps.reports["done"] = &model.Report{
			ID:     "done",
			Status: model.StatusCompleted,
			Metrics: &model.Metrics{
				BaselineBlinkRate: 16,
				FlickerBlinkRate:  28,
			},
			Assessment: &model.RiskAssessment{RiskScore: 6, RiskLevel: model.RiskModerate},
		}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("The referral draft renders with the caller's name", func() {
			resp, err := http.Get(srv.URL + "/screenings/done/referral?name=Sam")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			var d referral.Draft
			So(json.NewDecoder(resp.Body).Decode(&d), ShouldBeNil)
			So(d.Subject, ShouldNotBeBlank)
			So(d.Body, ShouldContainSubstring, "Sam")
		})

		Convey("Sending is rejected when no sender is configured", func() {
			body := `{"to": "clinic@example.com", "name": "Sam"}`
			resp, err := http.Post(srv.URL+"/screenings/done/referral", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("Sending delivers the draft when a sender is configured", func() {
			deps.sendEnable = true
			body := `{"to": "clinic@example.com", "name": "Sam"}`
			resp, err := http.Post(srv.URL+"/screenings/done/referral", "application/json", bytes.NewBufferString(body))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
			So(deps.sentTo, ShouldEqual, "clinic@example.com")
		})

		Convey("Sending without a recipient is rejected", func() {
			deps.sendEnable = true
			resp, err := http.Post(srv.URL+"/screenings/done/referral", "application/json", bytes.NewBufferString(`{"name":"Sam"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An incomplete report cannot be drafted", func() {
			deps.reports["pending"] = &model.Report{ID: "pending", Status: model.StatusPending}
			resp, err := http.Get(srv.URL + "/screenings/pending/referral")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/stats")
		So(err, ShouldBeNil)
		defer resp.Body.Close()
		So(resp.StatusCode, ShouldEqual, http.StatusOK)

		var out statsResponse
		So(json.NewDecoder(resp.Body).Decode(&out), ShouldBeNil)
		So(out.StoredReports, ShouldEqual, 0)
	})
}
