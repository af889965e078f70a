// Package landmark defines the facial landmark contract the pipeline
// consumes. Detection itself is an external concern; implementations live in
// the adapters.
package landmark

import "context"

// Point is a 2D landmark position in webcam pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EyeLidPointCount is the number of lid landmarks each eye needs for the
// openness ratio: outer corner, upper lid, upper-lid mid, inner corner,
// lower-lid mid, lower lid, in that order.
const EyeLidPointCount = 6

// Frame is the landmark set the oracle produced for one video frame. A nil
// *Frame means no face was detected. Frames are transient: produced once,
// consumed immediately, never persisted.
type Frame struct {
	// Lid landmarks drive the openness ratio.
	LeftEyeLid  []Point `json:"left_eye_lid"`
	RightEyeLid []Point `json:"right_eye_lid"`

	// Contour landmarks drive the eye-center estimate.
	LeftEyeContour  []Point `json:"left_eye_contour"`
	RightEyeContour []Point `json:"right_eye_contour"`

	// Width and Height are the webcam frame dimensions the points are
	// expressed in, needed to rescale into stimulus coordinates.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Image is one captured video frame handed to the oracle.
type Image struct {
	// JPEG holds the encoded frame.
	JPEG []byte
	// Width and Height are the decoded dimensions.
	Width  int
	Height int
}

// Oracle turns a captured frame into landmarks. Returning (nil, nil) means
// no face was detected this frame; that is a sensing gap, not an error.
type Oracle interface {
	Detect(ctx context.Context, img Image) (*Frame, error)

	// Close releases any underlying connection or model handle.
	Close() error
}
