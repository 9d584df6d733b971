package hub

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// sendBuffer is the per-client queue size. A client that falls this far
// behind is dropped rather than stalling everyone else.
const sendBuffer = 64

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans pubsub events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]bool

	events <-chan pubsub.Event
}

func NewHub(events <-chan pubsub.Event) *Hub {
	return &Hub{
		clients: make(map[*client]bool),
		events:  events,
	}
}

// Run consumes the event channel until it closes, broadcasting each event.
func (h *Hub) Run() {
	for event := range h.events {
		data, err := event.Encode()
		if err != nil {
			log.Printf("failed to encode event: %s", err.Error())
			continue
		}

		h.broadcast(data)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.drop(c)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade err: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	clientsConnected.Inc()

	go h.write(c)
	go h.read(c)
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
			eventsFanned.Inc()
		default:
			h.drop(c)
		}
	}
}

// drop must be called with the lock held.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	delete(h.clients, c)
	close(c.send)

	clientsConnected.Dec()
}

func (h *Hub) write(c *client) {
	defer c.conn.Close()

	for data := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			return
		}
	}
}

// read discards inbound frames, unregistering the client when the connection
// dies.
func (h *Hub) read(c *client) {
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()

		c.conn.Close()
	}()

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
	}
}
