// Package worker defines the consumer that drains queued screening jobs.
package worker

import (
	"github.com/okian/oculo/pkg/logger"
)

// Option applies a configuration option to the ScreeningWorker.
type Option func(*ScreeningWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ScreeningWorker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *ScreeningWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
