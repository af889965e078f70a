// Package capture provides webcam frame sources. Frames are handed to the
// rest of the pipeline as JPEG bytes plus dimensions so nothing downstream
// touches OpenCV types.
package capture

import (
	"context"

	"github.com/okian/oculo/internal/domain/landmark"
)

// Source yields frames at roughly the camera's native rate.
type Source interface {
	// Read grabs the next frame.
	Read(ctx context.Context) (landmark.Image, error)

	// Close releases the device.
	Close() error
}
