// Package oracle talks to the external facial-landmark service. The service
// owns the heavy vision model; this side sends webcam frames and gets back
// 2D eye-landmark coordinates, treating the detector as an opaque oracle.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/oculo/internal/domain/landmark"
	"github.com/okian/oculo/pkg/metrics"
)

// Default connection tuning.
const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultCallTimeout      = 2 * time.Second
)

// wireFrame is the oracle's JSON reply for one frame. Points are [x, y]
// pairs in image pixel coordinates.
type wireFrame struct {
	FaceDetected    bool         `json:"face_detected"`
	LeftEyeLid      [][2]float64 `json:"left_eye_lid"`
	RightEyeLid     [][2]float64 `json:"right_eye_lid"`
	LeftEyeContour  [][2]float64 `json:"left_eye_contour"`
	RightEyeContour [][2]float64 `json:"right_eye_contour"`
}

// Client is a WebSocket landmark.Oracle. Calls are strict request/reply in
// lockstep; a mutex serializes them since the frame loop is the only caller.
type Client struct {
	url         string
	handshake   time.Duration
	callTimeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewClient creates a Client for the given ws:// or wss:// URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:         url,
		handshake:   defaultHandshakeTimeout,
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the landmark service.
func (c *Client) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.handshake,
	}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial landmark oracle %s: %w", c.url, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Detect sends one JPEG frame and waits for its landmark reply. A reply
// with face_detected=false yields (nil, nil).
func (c *Client) Detect(ctx context.Context, img landmark.Image) (*landmark.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil, ErrNotConnected
	}

	start := time.Now()
	defer func() {
		metrics.RecordOracleLatency(float64(time.Since(start).Milliseconds()))
	}()

	deadline := time.Now().Add(c.callTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, img.JPEG); err != nil {
		return nil, fmt.Errorf("send frame: %w", err)
	}

	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set read deadline: %w", err)
	}
	_, payload, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read landmarks: %w", err)
	}

	var wf wireFrame
	if err := json.Unmarshal(payload, &wf); err != nil {
		return nil, fmt.Errorf("decode landmarks: %w", err)
	}
	if !wf.FaceDetected {
		return nil, nil
	}

	return &landmark.Frame{
		LeftEyeLid:      toPoints(wf.LeftEyeLid),
		RightEyeLid:     toPoints(wf.RightEyeLid),
		LeftEyeContour:  toPoints(wf.LeftEyeContour),
		RightEyeContour: toPoints(wf.RightEyeContour),
		Width:           img.Width,
		Height:          img.Height,
	}, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func toPoints(pairs [][2]float64) []landmark.Point {
	out := make([]landmark.Point, len(pairs))
	for i, p := range pairs {
		out[i] = landmark.Point{X: p[0], Y: p[1]}
	}
	return out
}
