package capture

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/okian/oculo/internal/domain/landmark"
)

// Webcam is a Source backed by a local video device via OpenCV.
type Webcam struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	buf gocv.Mat
}

// OpenWebcam opens the video device with the given ID (0 is the default
// camera).
func OpenWebcam(deviceID int) (*Webcam, error) {
	cap, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open video device %d: %w", deviceID, err)
	}
	return &Webcam{
		cap: cap,
		buf: gocv.NewMat(),
	}, nil
}

// Read grabs the next frame and encodes it as JPEG.
func (w *Webcam) Read(ctx context.Context) (landmark.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return landmark.Image{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return landmark.Image{}, err
	}

	if ok := w.cap.Read(&w.buf); !ok {
		return landmark.Image{}, ErrReadFailed
	}
	if w.buf.Empty() {
		return landmark.Image{}, ErrEmptyFrame
	}

	encoded, err := gocv.IMEncode(gocv.JPEGFileExt, w.buf)
	if err != nil {
		return landmark.Image{}, fmt.Errorf("encode frame: %w", err)
	}
	defer encoded.Close()

	jpeg := make([]byte, len(encoded.GetBytes()))
	copy(jpeg, encoded.GetBytes())

	return landmark.Image{
		JPEG:   jpeg,
		Width:  w.buf.Cols(),
		Height: w.buf.Rows(),
	}, nil
}

// Close releases the device and the frame buffer.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cap == nil {
		return nil
	}
	err := w.cap.Close()
	w.cap = nil
	if cerr := w.buf.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
