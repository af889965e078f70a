package oracle

import "time"

// ClientOption applies a configuration option to the Client.
type ClientOption func(*Client)

// WithHandshakeTimeout sets the WebSocket handshake timeout.
func WithHandshakeTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.handshake = d
		}
	}
}

// WithCallTimeout bounds one detect round trip.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}
