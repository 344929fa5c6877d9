// internal/api/hub.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"team-builder/internal/common/logger"
	"team-builder/internal/teambuilder"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// ProgressHub fans generation progress events out to websocket subscribers,
// keyed by session id. It satisfies teambuilder.ProgressPublisher.
type ProgressHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan []byte]struct{}
	logger      logger.Logger
}

func NewProgressHub(log logger.Logger) *ProgressHub {
	return &ProgressHub{
		subscribers: make(map[string]map[chan []byte]struct{}),
		logger:      log.WithFields(map[string]interface{}{"component": "progress-hub"}),
	}
}

// Publish delivers an event to every subscriber of its session. Slow
// subscribers get the event dropped rather than blocking the pipeline.
func (h *ProgressHub) Publish(event teambuilder.ProgressEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("progress event encode failed", map[string]interface{}{"error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers[event.SessionID] {
		select {
		case ch <- payload:
		default:
		}
	}
}

// Subscribe registers a new listener for a session. The returned channel is
// closed by Unsubscribe.
func (h *ProgressHub) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, sendBufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[sessionID] == nil {
		h.subscribers[sessionID] = make(map[chan []byte]struct{})
	}
	h.subscribers[sessionID][ch] = struct{}{}
	return ch
}

func (h *ProgressHub) Unsubscribe(sessionID string, ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subscribers[sessionID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(h.subscribers, sessionID)
	}
}

// SubscriberCount reports active listeners for a session.
func (h *ProgressHub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[sessionID])
}

// ServeConn pumps progress events for one session onto a websocket
// connection until the client disconnects.
func (h *ProgressHub) ServeConn(conn *websocket.Conn, sessionID string) {
	ch := h.Subscribe(sessionID)
	defer h.Unsubscribe(sessionID, ch)
	defer conn.Close()

	done := make(chan struct{})

	// Read pump: only pong handling and disconnect detection.
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
