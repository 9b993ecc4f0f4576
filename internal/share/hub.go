// Package share relays drawing ops between the boards of a shared
// session: the host runs a Hub, guests connect with a Client.
package share

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SketchBoard/internal/state"
)

// Path is where the hub accepts websocket connections.
const Path = "/ws"

const writeWait = 5 * time.Second

// peer is one connected guest. gorilla connections allow a single writer,
// so writes go through mu.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(op state.Op) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return p.conn.WriteJSON(op)
}

// Hub accepts guests, hands their ops to OnOp and relays each one to every
// other guest.
type Hub struct {
	upgrader websocket.Upgrader
	peers    map[*peer]bool
	mu       sync.RWMutex
	log      *slog.Logger

	// OnOp receives every op a guest sends, before it is relayed.
	OnOp func(state.Op)
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		peers: make(map[*peer]bool),
		log:   slog.Default().With("component", "share"),
	}
}

// ServeHTTP upgrades the request and serves the guest until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	p := &peer{conn: conn}
	h.add(p)
	defer h.remove(p)
	defer conn.Close()

	for {
		var op state.Op
		if err := conn.ReadJSON(&op); err != nil {
			h.log.Info("guest disconnected", "remote", conn.RemoteAddr().String(), "err", err)
			return
		}
		h.log.Debug("op received", "type", op.Type, "site", op.Site, "remote", conn.RemoteAddr().String())
		if h.OnOp != nil {
			h.OnOp(op)
		}
		h.relay(op, p)
	}
}

// Broadcast sends an op from the host to every guest.
func (h *Hub) Broadcast(op state.Op) {
	h.relay(op, nil)
}

// Peers returns the number of connected guests.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) relay(op state.Op, exclude *peer) {
	h.mu.RLock()
	targets := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		if p != exclude {
			targets = append(targets, p)
		}
	}
	h.mu.RUnlock()

	for _, p := range targets {
		if err := p.send(op); err != nil {
			h.log.Warn("relay failed", "remote", p.conn.RemoteAddr().String(), "err", err)
		}
	}
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.peers[p] = true
	h.log.Info("guest connected", "remote", p.conn.RemoteAddr().String())
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.peers, p)
}

// Handler returns an http.Handler serving the hub at Path.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	return mux
}
