// Package worker defines the consumer that drains queued screening jobs.
//
// Unlike a generic pool, exactly one worker runs the capture pipeline: the
// camera and the on-screen stimulus are exclusive resources, so jobs are
// processed strictly one at a time.
package worker

import (
	"context"
	"fmt"

	"github.com/okian/oculo/internal/adapters/mq/queue"
	"github.com/okian/oculo/pkg/logger"
)

// Runner executes one screening job end to end.
type Runner interface {
	RunScreening(ctx context.Context, job queue.Job) error
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes screening jobs sequentially.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker, letting an in-flight
	// screening finish.
	Shutdown(ctx context.Context) error
}

// ScreeningWorker implements Worker over a job queue and a Runner.
type ScreeningWorker struct {
	queue  Queue
	runner Runner
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewScreeningWorker creates a worker with configuration options.
func NewScreeningWorker(q Queue, runner Runner, opts ...Option) *ScreeningWorker {
	w := &ScreeningWorker{
		queue:    q,
		runner:   runner,
		name:     "screening-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop.
func (w *ScreeningWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.runner.RunScreening(ctx, job); err != nil {
				w.logger.Error(ctx, "screening failed",
					logger.String("report_id", job.ReportID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *ScreeningWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
