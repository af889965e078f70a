package service

import (
	"github.com/okian/oculo/internal/adapters/capture"
	jobqueue "github.com/okian/oculo/internal/adapters/mq/queue"
	"github.com/okian/oculo/internal/adapters/referral"
	"github.com/okian/oculo/internal/adapters/repository"
	"github.com/okian/oculo/internal/adapters/stimulus"
	"github.com/okian/oculo/internal/adapters/summary"
	"github.com/okian/oculo/internal/domain/blink"
	"github.com/okian/oculo/internal/domain/landmark"
	"github.com/okian/oculo/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the camera frame source.
func WithSource(src capture.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithOracle sets the landmark oracle.
func WithOracle(o landmark.Oracle) Option {
	return func(s *Service) {
		if o != nil {
			s.oracle = o
		}
	}
}

// WithBroadcaster sets the stimulus broadcaster.
func WithBroadcaster(b stimulus.Broadcaster) Option {
	return func(s *Service) {
		if b != nil {
			s.broadcaster = b
		}
	}
}

// WithStore sets a custom report store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithQueue sets a custom job queue.
func WithQueue(q jobqueue.Queue) Option {
	return func(s *Service) {
		if q != nil {
			s.queue = q
		}
	}
}

// WithSummaryGenerator enables AI summaries on completed reports.
func WithSummaryGenerator(g summary.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.generator = g
		}
	}
}

// WithReferralSender enables emailing referral drafts.
func WithReferralSender(r referral.Sender) Option {
	return func(s *Service) {
		if r != nil {
			s.sender = r
		}
	}
}

// WithProtocol overrides the screening protocol timing and geometry.
func WithProtocol(p Protocol) Option {
	return func(s *Service) {
		s.protocol = p
	}
}

// WithQueueSize sets the pending-job capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreCapacity bounds the report store.
func WithStoreCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.storeCapacity = capacity
		}
	}
}

// WithBlinkOptions forwards tuning options to each phase accumulator.
func WithBlinkOptions(opts ...blink.Option) Option {
	return func(s *Service) {
		s.blinkOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
