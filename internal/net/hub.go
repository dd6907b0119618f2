package net

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"Whiteboard/internal/board"
	"Whiteboard/internal/state"
	"Whiteboard/internal/store"
)

// Message types sent on the feed.
const (
	TypeSnapshot = "snapshot"
	TypeSaved    = "saved"
)

// Message is one feed frame. Snapshot frames carry the board contents, saved
// frames the info of a document that was just stored.
type Message struct {
	Type     string          `json:"type"`
	Revision uint64          `json:"revision,omitempty"`
	Shapes   state.ShapeList `json:"shapes,omitempty"`
	File     *store.FileInfo `json:"file,omitempty"`
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

type peer struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans feed messages out to websocket peers. It is a board.Subscriber,
// so a board can be observed live by attaching it with Subscribe.
type Hub struct {
	mu       sync.RWMutex
	peers    map[*peer]bool
	last     []byte // latest snapshot, replayed to new peers
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		peers: make(map[*peer]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the peer until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[FEED] Upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}
	p := &peer{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(p)
	go h.writeLoop(p)

	// peers only listen; reading keeps close frames flowing
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(p)
}

func (h *Hub) add(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last != nil {
		p.send <- h.last
	}
	h.peers[p] = true
	log.Printf("[FEED] Added peer: %s", p.conn.RemoteAddr())
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.peers[p] {
		return
	}
	delete(h.peers, p)
	close(p.send)
	log.Printf("[FEED] Removed peer: %s", p.conn.RemoteAddr())
}

func (h *Hub) writeLoop(p *peer) {
	defer p.conn.Close()
	for data := range p.send {
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("[FEED] Error sending to %s: %v", p.conn.RemoteAddr(), err)
			return
		}
	}
	p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// Broadcast queues data for every peer. A peer whose queue is full misses
// the frame rather than stalling the others.
func (h *Hub) Broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.broadcastLocked(data)
}

func (h *Hub) broadcastLocked(data []byte) {
	for p := range h.peers {
		select {
		case p.send <- data:
		default:
			log.Printf("[FEED] Dropping frame for slow peer %s", p.conn.RemoteAddr())
		}
	}
}

// Publish sends a board snapshot to every peer and keeps it for peers that
// connect later.
func (h *Hub) Publish(s board.Snapshot) {
	data, err := json.Marshal(Message{Type: TypeSnapshot, Revision: s.Revision, Shapes: s.Shapes})
	if err != nil {
		log.Printf("[FEED] Encoding snapshot %d: %v", s.Revision, err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	h.broadcastLocked(data)
}

// Announce tells every peer that a document was saved.
func (h *Hub) Announce(info store.FileInfo) {
	data, err := json.Marshal(Message{Type: TypeSaved, File: &info})
	if err != nil {
		log.Printf("[FEED] Encoding saved frame: %v", err)
		return
	}
	h.Broadcast(data)
}

// Peers is the number of connected peers.
func (h *Hub) Peers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
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
