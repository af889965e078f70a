// Package stimulus broadcasts the on-screen stimulus state over WebSocket.
// Rendering is external; any connected client (browser page, native window)
// receives the per-frame state and draws it. The pipeline publishes here and
// never blocks on slow clients.
package stimulus

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/okian/oculo/pkg/logger"
	"github.com/okian/oculo/pkg/metrics"
)

// writeTimeout bounds one broadcast write; a client slower than this is
// dropped rather than stalling the frame loop.
const writeTimeout = 500 * time.Millisecond

// State is one stimulus frame pushed to renderer clients.
type State struct {
	Phase     string  `json:"phase"`
	FlickerOn bool    `json:"flicker_on"`
	DotX      float64 `json:"dot_x"`
	DotY      float64 `json:"dot_y"`
	Elapsed   float64 `json:"t"`
}

// Broadcaster publishes stimulus state to whoever renders it.
type Broadcaster interface {
	Publish(ctx context.Context, s State)
}

type peer struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return p.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub fans stimulus state out to connected WebSocket clients.
type Hub struct {
	mu       sync.RWMutex
	peers    map[string]*peer
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		peers: make(map[string]*peer),
		upgrader: websocket.Upgrader{
			// Renderers may be served from a different origin in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.Get().Named("stimulus"),
	}
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), "websocket upgrade failed", logger.Error(err))
		return
	}

	p := &peer{id: uuid.NewString(), conn: conn}
	h.add(p)
	defer h.remove(p.id)

	// Drain reads so close frames and pings are processed; clients never
	// send application data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends the state to every connected client, dropping the ones
// that fail.
func (h *Hub) Publish(ctx context.Context, s State) {
	payload, err := json.Marshal(s)
	if err != nil {
		h.logger.Error(ctx, "marshal stimulus state", logger.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*peer, 0, len(h.peers))
	for _, p := range h.peers {
		targets = append(targets, p)
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if err := p.send(payload); err != nil {
			h.logger.Warn(ctx, "dropping stimulus client",
				logger.String("peer_id", p.id),
				logger.Error(err),
			)
			h.remove(p.id)
		}
	}
}

// PeerCount returns the number of connected renderer clients.
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Close disconnects all clients.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, p := range h.peers {
		_ = p.conn.Close()
		delete(h.peers, id)
	}
	metrics.UpdateStimulusPeers(0)
	return nil
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	h.peers[p.id] = p
	n := len(h.peers)
	h.mu.Unlock()
	metrics.UpdateStimulusPeers(n)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	if p, ok := h.peers[id]; ok {
		_ = p.conn.Close()
		delete(h.peers, id)
	}
	n := len(h.peers)
	h.mu.Unlock()
	metrics.UpdateStimulusPeers(n)
}
