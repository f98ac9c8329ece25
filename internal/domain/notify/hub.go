package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // configure in prod
}

// Event is a realtime message pushed to a connected client.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// connection is one WebSocket client; a user holds at most one.
type connection struct {
	userID int64
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks active connections keyed by user id and fans friend
// events out to them. Delivery is best effort: a full or missing
// connection drops the event.
type Hub struct {
	mu          sync.RWMutex
	connections map[int64]*connection
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*connection),
	}
}

// Push sends an event to the user's connection if one is registered.
// The read lock is held through the channel send: send channels are
// only closed under the write lock, so the send can never hit a
// closed channel.
func (h *Hub) Push(userID int64, eventType string, payload any) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.connections[userID]
	if !ok {
		return
	}

	select {
	case c.send <- data:
	default:
		// Slow client; drop rather than block the request path.
	}
}

// Serve upgrades the request and keeps the connection until the client
// goes away. The previous connection for the same user is replaced.
func (h *Hub) Serve(userID int64, w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("notify upgrade failed user_id=%d error=%v", userID, err)
		return
	}

	c := &connection{
		userID: userID,
		conn:   ws,
		send:   make(chan []byte, 32),
	}
	h.register(c)

	go c.writePump()
	c.readPump(h)
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	if old, ok := h.connections[c.userID]; ok {
		close(old.send)
		_ = old.conn.Close()
	}
	h.connections[c.userID] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	if current, ok := h.connections[c.userID]; ok && current == c {
		delete(h.connections, c.userID)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (c *connection) readPump(h *Hub) {
	defer h.unregister(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
