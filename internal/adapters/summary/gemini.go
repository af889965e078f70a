// Package summary turns a finished screening report into a short
// patient-facing explanation using Gemini. The summary is strictly
// best-effort: any failure leaves the report without one.
package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/okian/oculo/internal/domain/model"
	"github.com/okian/oculo/pkg/logger"
	"github.com/okian/oculo/pkg/metrics"
)

// defaultModel is free-tier friendly and fast enough to run inline at the
// end of a screening.
const defaultModel = "gemini-2.0-flash"

const systemPrompt = "You are a cautious, non-diagnostic medical screening assistant."

// Generator produces a plain-language summary for a report.
type Generator interface {
	Generate(ctx context.Context, r *model.Report) (string, error)
}

// Gemini implements Generator over the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

// NewGemini creates a Gemini summary generator. The API key comes from the
// caller; an empty key should be handled upstream by not constructing one.
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	g := &Gemini{
		client: client,
		model:  defaultModel,
		logger: logger.Get().Named("summary"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate asks Gemini for a short explanation of the screening outcome.
func (g *Gemini) Generate(ctx context.Context, r *model.Report) (string, error) {
	if r == nil || r.Assessment == nil || r.Metrics == nil {
		return "", ErrIncompleteReport
	}

	start := time.Now()
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(Prompt(r)), config)
	metrics.RecordSummaryLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSummaryError()
		return "", fmt.Errorf("generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		metrics.RecordSummaryError()
		return "", ErrEmptySummary
	}
	return text, nil
}

// Prompt renders the report into the summarization prompt. Exported so the
// synthetic test session can print what would be sent.
func Prompt(r *model.Report) string {
	pursuitText := "Not performed."
	if r.Pursuit != nil {
		pursuitText = fmt.Sprintf(
			"Smooth pursuit mean error: %.1f px; variance: %.1f; SP%% (within tracking window): %.1f%%.",
			r.Pursuit.MeanError, r.Pursuit.ErrorStd, r.Pursuit.InWindowFraction*100,
		)
	}

	return fmt.Sprintf(`Summarize the following concussion-related light sensitivity and eye movement screening:

METRICS:
- Baseline blink rate: %.2f blinks/min
- Flicker blink rate: %.2f blinks/min
- Blink rate increase: %.2f blinks/min
- Eye-closed fraction: %.2f%%
- Gaze-off-center fraction: %.2f%%

SMOOTH PURSUIT:
- %s

SYMPTOMS:
- Headache: %s
- Nausea: %s
- Dizziness: %s
- Light sensitivity: %s

RISK ASSESSMENT:
- Level: %s
- Score: %d/10

Write a concise (<150 words), plain-language summary that:
1. Explains what the patterns might suggest about light sensitivity or eye movement difficulties.
2. Clearly states that this is NOT a diagnosis.
3. Encourages seeing a healthcare professional if symptoms are significant or worsening.
4. Avoids giving definitive medical conclusions.`,
		r.Metrics.BaselineBlinkRate,
		r.Metrics.FlickerBlinkRate,
		r.Metrics.BlinkRateDelta,
		r.Metrics.EyeClosedFraction*100,
		r.Metrics.GazeOffFraction*100,
		pursuitText,
		yesNo(r.Symptoms.Headache),
		yesNo(r.Symptoms.Nausea),
		yesNo(r.Symptoms.Dizziness),
		yesNo(r.Symptoms.LightSensitivity),
		r.Assessment.RiskLevel,
		r.Assessment.RiskScore,
	)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
