package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WSMessage is the envelope pushed to UI subscribers during ingestion.
type WSMessage struct {
	Type    string      `json:"type"`              // ingest_started, ingest_advisory, ingest_done, ingest_failed
	Source  string      `json:"source,omitempty"`  // archive name or "demo"
	Payload interface{} `json:"payload,omitempty"` // arbitrary JSON
}

// WSHub fans ingest lifecycle events out to connected UI clients.
type WSHub struct {
	upgrader websocket.Upgrader
	log      *logrus.Logger
	mu       sync.RWMutex
	subs     map[*websocket.Conn]struct{}
}

func NewWSHub(logger *logrus.Logger) *WSHub {
	if logger == nil {
		logger = logrus.New()
	}
	return &WSHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:  logger,
		subs: map[*websocket.Conn]struct{}{},
	}
}

// HandleUI upgrades and registers a UI subscriber.
func (h *WSHub) HandleUI(w http.ResponseWriter, r *http.Request) {
	c, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("ws upgrade failed")
		return
	}
	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("ui ws subscriber connected")
	go h.readLoop(c)
}

// Broadcast sends a message to every subscriber; dead connections are
// dropped on write failure.
func (h *WSHub) Broadcast(msg WSMessage) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs))
	for c := range h.subs {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	for _, c := range conns {
		if err := c.WriteJSON(msg); err != nil {
			h.drop(c)
		}
	}
}

// readLoop only watches for close; subscribers never send payloads.
func (h *WSHub) readLoop(c *websocket.Conn) {
	defer h.drop(c)
	for {
		if _, _, err := c.NextReader(); err != nil {
			return
		}
	}
}

func (h *WSHub) drop(c *websocket.Conn) {
	_ = c.Close()
	h.mu.Lock()
	delete(h.subs, c)
	h.mu.Unlock()
}
