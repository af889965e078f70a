// Package service wires the screening pipeline together and implements the
// dependencies required by the HTTP API: queueing screenings, running the
// phase protocol against the camera and landmark oracle, scoring, and
// storing reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/oculo/internal/adapters/capture"
	jobqueue "github.com/okian/oculo/internal/adapters/mq/queue"
	jobworker "github.com/okian/oculo/internal/adapters/mq/worker"
	"github.com/okian/oculo/internal/adapters/referral"
	"github.com/okian/oculo/internal/adapters/repository"
	"github.com/okian/oculo/internal/adapters/stimulus"
	"github.com/okian/oculo/internal/adapters/summary"
	"github.com/okian/oculo/internal/domain/blink"
	"github.com/okian/oculo/internal/domain/eyestate"
	"github.com/okian/oculo/internal/domain/landmark"
	"github.com/okian/oculo/internal/domain/model"
	"github.com/okian/oculo/internal/domain/pursuit"
	"github.com/okian/oculo/internal/domain/risk"
	"github.com/okian/oculo/internal/domain/screening"
	"github.com/okian/oculo/pkg/logger"
	"github.com/okian/oculo/pkg/metrics"
)

// Phase names as they appear in reports and stimulus broadcasts.
const (
	PhaseBaseline = "baseline"
	PhaseFlicker  = "flicker"
	PhasePursuit  = "pursuit"
	PhasePause    = "pause"
)

// Protocol holds the timing and geometry of one screening run.
type Protocol struct {
	BaselineDuration time.Duration
	FlickerDuration  time.Duration
	PauseDuration    time.Duration
	PursuitDuration  time.Duration

	// FlickerRate is the number of frames between flicker toggles.
	FlickerRate int

	// FrameInterval paces the capture loop.
	FrameInterval time.Duration

	StimulusWidth  int
	StimulusHeight int

	PursuitAmplitude float64
	PursuitFrequency float64
	PursuitCenterX   float64
	PursuitCenterY   float64
	PursuitTolerance float64
}

// DefaultProtocol mirrors the screening protocol the scoring thresholds
// were tuned against.
func DefaultProtocol() Protocol {
	return Protocol{
		BaselineDuration: 8 * time.Second,
		FlickerDuration:  15 * time.Second,
		PauseDuration:    2 * time.Second,
		PursuitDuration:  12 * time.Second,
		FlickerRate:      10,
		FrameInterval:    33 * time.Millisecond,
		StimulusWidth:    800,
		StimulusHeight:   600,
		PursuitAmplitude: 200,
		PursuitFrequency: 0.4,
		PursuitCenterX:   400,
		PursuitCenterY:   300,
		PursuitTolerance: 80,
	}
}

// Service implements the API dependencies for the screening system.
type Service struct {
	store       repository.Store
	queue       jobqueue.Queue
	worker      jobworker.Worker
	source      capture.Source
	oracle      landmark.Oracle
	broadcaster stimulus.Broadcaster
	generator   summary.Generator
	sender      referral.Sender

	protocol      Protocol
	queueSize     int
	storeCapacity int
	blinkOpts     []blink.Option

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration. The capture source
// and landmark oracle have no useful defaults and must be supplied via
// options before Start.
func New(opts ...Option) *Service {
	s := &Service{
		protocol:      DefaultProtocol(),
		queueSize:     16,
		storeCapacity: 256,
		broadcaster:   stimulus.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the remaining components and launches the job worker.
func (s *Service) Start(ctx context.Context) error {
	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("screening")
	}
	if s.source == nil || s.oracle == nil {
		return ErrNotConfigured
	}

	if s.store == nil {
		s.store = repository.NewMemStore(repository.WithCapacity(s.storeCapacity))
	}
	if s.queue == nil {
		s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	}
	if s.worker == nil {
		s.worker = jobworker.NewScreeningWorker(s.queue, s)
	}

	go s.worker.Run(ctx)

	s.started = true
	s.logger.Info(ctx, "screening service started",
		logger.Int("queue_size", s.queueSize),
		logger.Int("store_capacity", s.storeCapacity),
	)
	return nil
}

// Stop gracefully shuts down the worker and releases the devices.
func (s *Service) Stop(ctx context.Context) {
	if !s.started {
		return
	}

	_ = s.queue.Close()
	if err := s.worker.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker shutdown", logger.Error(err))
	}
	if err := s.oracle.Close(); err != nil {
		s.logger.Warn(ctx, "oracle close", logger.Error(err))
	}
	if err := s.source.Close(); err != nil {
		s.logger.Warn(ctx, "capture close", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "screening service stopped")
}

// StartScreening registers a pending report and queues the screening job.
func (s *Service) StartScreening(ctx context.Context, symptoms model.Symptoms, skipPursuit bool) (string, error) {
	report := &model.Report{
		ID:        uuid.NewString(),
		Status:    model.StatusPending,
		Symptoms:  symptoms,
		StartedAt: time.Now(),
	}
	if err := s.store.Put(ctx, report); err != nil {
		return "", fmt.Errorf("register report: %w", err)
	}

	job := jobqueue.Job{ReportID: report.ID, Symptoms: symptoms, SkipPursuit: skipPursuit}
	if !s.queue.Enqueue(ctx, job) {
		report.Status = model.StatusFailed
		report.Error = "screening queue full"
		_ = s.store.Put(ctx, report)
		return "", ErrQueueFull
	}

	metrics.RecordScreeningStarted()
	return report.ID, nil
}

// RunScreening executes one queued screening end to end. It satisfies
// worker.Runner.
func (s *Service) RunScreening(ctx context.Context, job jobqueue.Job) error {
	report, err := s.store.Get(ctx, job.ReportID)
	if err != nil {
		return fmt.Errorf("load report %s: %w", job.ReportID, err)
	}

	report.Status = model.StatusRunning
	_ = s.store.Put(ctx, report)

	if err := s.runPhases(ctx, report, job.SkipPursuit); err != nil {
		report.Status = model.StatusFailed
		report.Error = err.Error()
		now := time.Now()
		report.FinishedAt = &now
		_ = s.store.Put(ctx, report)
		metrics.RecordScreeningFailed()
		return err
	}

	s.score(report)

	if s.generator != nil {
		text, err := s.generator.Generate(ctx, report)
		if err != nil {
			// Summaries are best-effort; the report stands without one.
			s.logger.Warn(ctx, "summary generation failed", logger.Error(err))
		} else {
			report.Summary = text
		}
	}

	report.Status = model.StatusCompleted
	now := time.Now()
	report.FinishedAt = &now
	if err := s.store.Put(ctx, report); err != nil {
		return fmt.Errorf("store report %s: %w", report.ID, err)
	}

	metrics.RecordScreeningCompleted()
	s.logger.Info(ctx, "screening completed",
		logger.String("report_id", report.ID),
		logger.Int("risk_score", report.Assessment.RiskScore),
		logger.String("risk_level", report.Assessment.RiskLevel),
	)
	return nil
}

func (s *Service) runPhases(ctx context.Context, report *model.Report, skipPursuit bool) error {
	baseline, err := s.runPhase(ctx, PhaseBaseline, s.protocol.BaselineDuration, false)
	if err != nil {
		return err
	}
	report.Baseline = &baseline
	_ = s.store.Put(ctx, report)

	if err := s.pause(ctx); err != nil {
		return err
	}

	flicker, err := s.runPhase(ctx, PhaseFlicker, s.protocol.FlickerDuration, true)
	if err != nil {
		return err
	}
	report.Flicker = &flicker
	_ = s.store.Put(ctx, report)

	if !skipPursuit {
		if err := s.pause(ctx); err != nil {
			return err
		}
		ps, err := s.runPursuit(ctx)
		if err != nil {
			return err
		}
		report.Pursuit = &ps
	}
	return nil
}

// score derives the cross-phase metrics and the risk assessment. Hard-invalid
// phases still produce numbers; their warnings travel with the report.
func (s *Service) score(report *model.Report) {
	m := screening.Derive(*report.Baseline, *report.Flicker)
	report.Metrics = &m

	a := risk.Assess(m, report.Pursuit, report.Symptoms)
	report.Assessment = &a

	metrics.RecordRiskScore(a.RiskScore)
	metrics.RecordScreeningTier(a.RiskLevel)
}

// Assess runs the pure scoring path on externally supplied measurements.
func (s *Service) Assess(ctx context.Context, m model.Metrics, p *model.PursuitSummary, symptoms model.Symptoms) model.RiskAssessment {
	a := risk.Assess(m, p, symptoms)
	metrics.RecordRiskScore(a.RiskScore)
	metrics.RecordScreeningTier(a.RiskLevel)
	return a
}

// GetReport returns the report with the given ID.
func (s *Service) GetReport(ctx context.Context, id string) (*model.Report, error) {
	return s.store.Get(ctx, id)
}

// RecentReports returns up to limit reports, newest first.
func (s *Service) RecentReports(ctx context.Context, limit int) ([]*model.Report, error) {
	return s.store.Recent(ctx, limit)
}

// ComposeReferral drafts the evaluation-request email for a completed
// screening.
func (s *Service) ComposeReferral(ctx context.Context, id, userName string) (referral.Draft, error) {
	report, err := s.store.Get(ctx, id)
	if err != nil {
		return referral.Draft{}, err
	}
	return referral.Compose(report, userName)
}

// SendReferral drafts the referral email for a completed screening and
// delivers it to the given address.
func (s *Service) SendReferral(ctx context.Context, id, userName, to string) error {
	if s.sender == nil {
		return ErrReferralDisabled
	}
	draft, err := s.ComposeReferral(ctx, id, userName)
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, to, draft)
}

// Stats reports queue and store occupancy. Both read as zero before Start.
func (s *Service) Stats(ctx context.Context) (queued, stored int) {
	if s.queue != nil {
		queued = s.queue.Len(ctx)
	}
	if s.store != nil {
		stored = s.store.Count(ctx)
	}
	return queued, stored
}

func (s *Service) pause(ctx context.Context) error {
	select {
	case <-time.After(s.protocol.PauseDuration):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runPhase drives one fixed-duration collection phase: read a frame, ask the
// oracle, feed the accumulator, publish the stimulus state.
func (s *Service) runPhase(ctx context.Context, phase string, duration time.Duration, flicker bool) (model.PhaseSummary, error) {
	acc := blink.New(phase, duration.Seconds(), s.blinkOpts...)

	ticker := time.NewTicker(s.protocol.FrameInterval)
	defer ticker.Stop()

	start := time.Now()
	lastFrame := start
	frameIdx := 0
	flickerOn := false

	for time.Since(start) < duration {
		select {
		case <-ctx.Done():
			return model.PhaseSummary{}, ctx.Err()
		case <-ticker.C:
		}

		if flicker && frameIdx%s.protocol.FlickerRate == 0 {
			flickerOn = !flickerOn
		}
		frameIdx++

		now := time.Now()
		frameDur := now.Sub(lastFrame)
		lastFrame = now

		blinksBefore := acc.BlinkCount()
		err := s.observeFrame(ctx, acc, frameDur)
		if acc.BlinkCount() > blinksBefore {
			metrics.RecordBlink()
		}
		if err != nil {
			s.logger.Warn(ctx, "frame source exhausted, truncating phase",
				logger.String("phase", phase),
				logger.Error(err),
			)
			break
		}

		s.broadcaster.Publish(ctx, stimulus.State{
			Phase:     phase,
			FlickerOn: flickerOn,
			Elapsed:   time.Since(start).Seconds(),
		})
	}

	metrics.RecordPhaseCompleted(phase)
	return acc.Summarize(), nil
}

// observeFrame feeds a single camera frame into the accumulator. A dead
// frame source returns a non-nil error so the phase can truncate; any other
// failure between camera and oracle degrades to a missed frame.
func (s *Service) observeFrame(ctx context.Context, acc *blink.Accumulator, frameDur time.Duration) error {
	metrics.RecordFrameProcessed()

	img, err := s.source.Read(ctx)
	if err != nil {
		if streamEnded(err) {
			return err
		}
		acc.ObserveMiss()
		metrics.RecordFaceMissed()
		return nil
	}

	frame, err := s.oracle.Detect(ctx, img)
	if err != nil || frame == nil {
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Debug(ctx, "landmark detection failed", logger.Error(err))
		}
		acc.ObserveMiss()
		metrics.RecordFaceMissed()
		return nil
	}
	metrics.RecordFaceDetected()

	openness := eyestate.AverageOpenness(frame)

	center, ok := eyestate.GazeCenter(frame)
	var offset float64
	if ok {
		imageCenter := landmark.Point{X: float64(frame.Width) / 2, Y: float64(frame.Height) / 2}
		offset = eyestate.GazeOffset(center, imageCenter)
	}
	acc.Observe(openness, offset, ok, frameDur)
	return nil
}

// streamEnded reports whether a capture error means the source will never
// produce another frame, as opposed to a transient bad read.
func streamEnded(err error) bool {
	return errors.Is(err, capture.ErrReadFailed) || errors.Is(err, capture.ErrClosed)
}

// runPursuit drives the moving-dot phase and samples tracking error in
// stimulus coordinates.
func (s *Service) runPursuit(ctx context.Context) (model.PursuitSummary, error) {
	trajectory := pursuit.NewTrajectory(
		s.protocol.PursuitCenterX,
		s.protocol.PursuitCenterY,
		s.protocol.PursuitAmplitude,
		s.protocol.PursuitFrequency,
		s.protocol.PursuitTolerance,
	)
	sampler := pursuit.NewSampler(trajectory)

	ticker := time.NewTicker(s.protocol.FrameInterval)
	defer ticker.Stop()

	start := time.Now()
	for time.Since(start) < s.protocol.PursuitDuration {
		select {
		case <-ctx.Done():
			return model.PursuitSummary{}, ctx.Err()
		case <-ticker.C:
		}

		t := time.Since(start).Seconds()
		dotX, dotY := trajectory.TargetAt(t)

		if err := s.samplePursuitFrame(ctx, sampler, t); err != nil {
			s.logger.Warn(ctx, "frame source exhausted, truncating phase",
				logger.String("phase", PhasePursuit),
				logger.Error(err),
			)
			break
		}

		s.broadcaster.Publish(ctx, stimulus.State{
			Phase:   PhasePursuit,
			DotX:    dotX,
			DotY:    dotY,
			Elapsed: t,
		})
	}

	metrics.RecordPhaseCompleted(PhasePursuit)
	return sampler.Summarize(), nil
}

func (s *Service) samplePursuitFrame(ctx context.Context, sampler *pursuit.Sampler, t float64) error {
	metrics.RecordFrameProcessed()

	img, err := s.source.Read(ctx)
	if err != nil {
		if streamEnded(err) {
			return err
		}
		sampler.ObserveMiss()
		metrics.RecordFaceMissed()
		return nil
	}

	frame, err := s.oracle.Detect(ctx, img)
	if err != nil || frame == nil {
		sampler.ObserveMiss()
		metrics.RecordFaceMissed()
		return nil
	}

	center, ok := eyestate.GazeCenter(frame)
	if !ok {
		sampler.ObserveMiss()
		metrics.RecordFaceMissed()
		return nil
	}
	metrics.RecordFaceDetected()

	p := eyestate.Rescale(center, frame.Width, frame.Height, s.protocol.StimulusWidth, s.protocol.StimulusHeight)
	sampler.Observe(p.X, p.Y, t)
	return nil
}
