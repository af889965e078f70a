package oracle

import (
	"context"
	"sync"

	"github.com/okian/oculo/internal/domain/landmark"
)

// Scripted is a landmark.Oracle that replays a fixed sequence of frames.
// A nil entry stands for a frame with no detected face. Used by the
// synthetic test session and by pipeline tests; no network involved.
type Scripted struct {
	mu     sync.Mutex
	frames []*landmark.Frame
	next   int
	loop   bool
}

// NewScripted creates a Scripted oracle over the given frame sequence.
func NewScripted(frames []*landmark.Frame, loop bool) *Scripted {
	return &Scripted{frames: frames, loop: loop}
}

// Detect returns the next scripted frame, ignoring the input image.
func (s *Scripted) Detect(ctx context.Context, _ landmark.Image) (*landmark.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return nil, ErrExhausted
	}
	if s.next >= len(s.frames) {
		if !s.loop {
			return nil, ErrExhausted
		}
		s.next = 0
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// Close is a no-op.
func (s *Scripted) Close() error {
	return nil
}
