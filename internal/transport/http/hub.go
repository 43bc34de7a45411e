package http

import (
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client is one websocket connection with its own writer goroutine, so no two
// goroutines ever write to the socket concurrently.
type client struct {
	id   string
	conn *websocket.Conn
	send chan outboundMessage

	mu   sync.Mutex
	room string
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *client) enqueue(msg outboundMessage) {
	select {
	case c.send <- msg:
	default:
		// Slow consumer; dropping beats stalling every other room member.
		log.Printf("ws: dropping %s for client %s (send buffer full)", msg.Type, c.id)
	}
}

// Hub is the connection registry and the app.Broadcaster implementation: it
// resolves "one player", "host of room X", and "room X" addressing to live
// websocket connections.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outboundMessage, 32),
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	go c.writePump()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) JoinRoom(clientID, pin string) {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.mu.Lock()
	c.room = pin
	c.mu.Unlock()
}

func (h *Hub) ToPlayer(clientID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.clients[clientID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.enqueue(outboundMessage{Type: event, Payload: payload})
}

func (h *Hub) ToHost(hostID, event string, payload any) {
	h.ToPlayer(hostID, event, payload)
}

func (h *Hub) ToRoom(pin, event string, payload any) {
	msg := outboundMessage{Type: event, Payload: payload}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.mu.Lock()
		inRoom := c.room == pin
		c.mu.Unlock()
		if inRoom {
			c.enqueue(msg)
		}
	}
}
