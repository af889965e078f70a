package capture

import (
	"context"
	"sync"

	"github.com/okian/oculo/internal/domain/landmark"
)

// Synthetic is a camera-free Source that emits a fixed placeholder frame.
// Paired with a scripted oracle it drives the pipeline in tests and in the
// synthetic screening mode, where the landmarks are fabricated anyway.
type Synthetic struct {
	mu     sync.Mutex
	img    landmark.Image
	closed bool
}

// minimalJPEG is just enough bytes to look like a JPEG payload; the
// scripted oracle never decodes it.
var minimalJPEG = []byte{0xff, 0xd8, 0xff, 0xd9}

// NewSynthetic creates a Synthetic source with the given frame dimensions.
func NewSynthetic(width, height int) *Synthetic {
	return &Synthetic{
		img: landmark.Image{JPEG: minimalJPEG, Width: width, Height: height},
	}
}

// Read returns the placeholder frame.
func (s *Synthetic) Read(ctx context.Context) (landmark.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return landmark.Image{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return landmark.Image{}, err
	}
	return s.img, nil
}

// Close marks the source closed.
func (s *Synthetic) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
