package sse

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
)

// event is a rendered SSE frame addressed to one user.
type event struct {
	userID  string
	payload string
}

type client struct {
	userID string
	send   chan string
}

// Manager fans out server-sent events to connected clients, keyed by user ID.
// A user may hold several connections (multiple devices).
type Manager struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan event
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan event, 64),
	}
}

// Run owns the client registry. Call it once, in its own goroutine.
func (m *Manager) Run() {
	for {
		select {
		case c := <-m.register:
			m.clients[c] = true
			log.Printf("[SSE] client connected (user=%s, total=%d)", c.userID, len(m.clients))
		case c := <-m.unregister:
			if _, ok := m.clients[c]; ok {
				delete(m.clients, c)
				close(c.send)
				log.Printf("[SSE] client disconnected (user=%s, total=%d)", c.userID, len(m.clients))
			}
		case ev := <-m.broadcast:
			for c := range m.clients {
				if c.userID != ev.userID {
					continue
				}
				select {
				case c.send <- ev.payload:
				default:
					// Slow consumer, drop the frame rather than block the registry.
				}
			}
		}
	}
}

// SendToUser delivers a named event to every connection held by userID.
func (m *Manager) SendToUser(userID, eventName string, data map[string]interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("[SSE] failed to marshal event %s: %v", eventName, err)
		return
	}
	m.broadcast <- event{
		userID:  userID,
		payload: fmt.Sprintf("event: %s\ndata: %s\n\n", eventName, body),
	}
}

// ServeHTTP upgrades the gin request into a long-lived SSE stream.
func (m *Manager) ServeHTTP(c *gin.Context, userID string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	cl := &client{userID: userID, send: make(chan string, 16)}
	m.register <- cl
	defer func() { m.unregister <- cl }()

	c.Writer.WriteString(": connected\n\n")
	c.Writer.Flush()

	for {
		select {
		case payload, ok := <-cl.send:
			if !ok {
				return
			}
			if _, err := c.Writer.WriteString(payload); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
