// Package referral drafts and sends the evaluation-request email a user can
// forward to their health center after a concerning screening.
package referral

import (
	"fmt"
	"strings"

	"github.com/okian/oculo/internal/domain/model"
)

// DefaultSubject for the evaluation request.
const DefaultSubject = "Request for Evaluation - Concussion Screening Results"

// Draft is a ready-to-send email.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Compose builds the referral email from a completed report. userName may be
// empty, in which case placeholders are left for the sender to fill in.
func Compose(r *model.Report, userName string) (Draft, error) {
	if r == nil || r.Assessment == nil || r.Metrics == nil {
		return Draft{}, ErrIncompleteReport
	}

	var symptomList []string
	if r.Symptoms.Headache {
		symptomList = append(symptomList, "headache")
	}
	if r.Symptoms.Nausea {
		symptomList = append(symptomList, "nausea")
	}
	if r.Symptoms.Dizziness {
		symptomList = append(symptomList, "dizziness")
	}
	if r.Symptoms.LightSensitivity {
		symptomList = append(symptomList, "light sensitivity")
	}
	symptomsText := "none reported"
	if len(symptomList) > 0 {
		symptomsText = strings.Join(symptomList, ", ")
	}

	trackingError := "N/A"
	if r.Pursuit != nil {
		trackingError = fmt.Sprintf("%.1f px", r.Pursuit.MeanError)
	}

	nameLine := ""
	signature := "[Your Name]"
	if userName != "" {
		nameLine = userName + "\n"
		signature = userName
	}

	body := fmt.Sprintf(`Dear Health Center Staff,

I completed a vision-based concussion screening and would like to request an evaluation.

%sSymptoms: %s

Metrics:
- Blink rates: %.1f -> %.1f blinks/min
- Eye-closed: %.1f%%
- Gaze aversion: %.1f%%
- Tracking error: %s

Risk: %s (%d/10)

I understand this is not a diagnosis, but the results suggest patterns that may warrant evaluation. I'd appreciate discussing these findings with a healthcare provider.

Thank you,
%s`,
		nameLine,
		symptomsText,
		r.Metrics.BaselineBlinkRate,
		r.Metrics.FlickerBlinkRate,
		r.Metrics.EyeClosedFraction*100,
		r.Metrics.GazeOffFraction*100,
		trackingError,
		r.Assessment.RiskLevel,
		r.Assessment.RiskScore,
		signature,
	)

	return Draft{Subject: DefaultSubject, Body: body}, nil
}
