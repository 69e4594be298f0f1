package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bezalel6/computer-chess/pkg/logging"
)

// Message kinds sent to peers.
const (
	KindDashboard = "dashboard"
	KindEvent     = "event"
)

const (
	sendBuffer   = 32
	writeTimeout = 5 * time.Second
)

// Message is the envelope of everything written to a peer.
type Message struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts collected events to WebSocket peers. A peer first
// receives the dashboard snapshot, then every event as it happens.
type Hub struct {
	mu        sync.RWMutex
	collector *EventCollector
	dashboard *DashboardData
	peers     map[*peer]struct{}
	upgrader  websocket.Upgrader
	logger    logging.Logger
}

// NewHub creates a hub and subscribes it to collector. Every event
// also updates dashboard.
func NewHub(collector *EventCollector, dashboard *DashboardData, logger logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	h := &Hub{
		collector: collector,
		dashboard: dashboard,
		peers:     make(map[*peer]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
	collector.OnEvent(h.handle)
	return h
}

func (h *Hub) handle(event ChallengeEvent) {
	h.dashboard.UpdateFromEvent(event)
	data, err := json.Marshal(Message{Kind: KindEvent, Data: event})
	if err != nil {
		return
	}
	h.broadcast(data)
}

// ServeHTTP upgrades the request and streams events until the peer
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", logging.ErrorField(err))
		return
	}

	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(Message{Kind: KindDashboard, Data: h.dashboard.Snapshot()}); err == nil {
		p.send <- data
	}

	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("monitor peer connected",
		logging.StringField("remote", conn.RemoteAddr().String()))

	go h.writeLoop(p)

	// Peers only listen; reading detects the close.
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	h.remove(p)
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(p)
			return
		}
	}
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p]; !ok {
		return
	}
	delete(h.peers, p)
	close(p.send)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			// Peer too slow, skip
		}
	}
}

// Peers returns the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// HandleDashboard writes the dashboard snapshot as JSON.
func (h *Hub) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.dashboard.Snapshot())
}

// Close disconnects every peer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		delete(h.peers, p)
		close(p.send)
	}
}
