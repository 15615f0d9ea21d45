// Package websocket pushes live score updates to everyone watching a day.
// Spectators open a WebSocket on /ws/days/:day and receive the refreshed day view each
// time a hole, challenge or reset is saved on that day, instead of polling the API.
package websocket

import (
	"context"
	"sync"
)

// sendBuffer is how many undelivered messages a client may fall behind by before
// the hub drops it.
const sendBuffer = 16

// Client is a single connected spectator.
type Client struct {
	Day  int         // Which day this client is watching
	Send chan []byte // Outgoing messages; the hub writes here, the connection drains it
}

// NewClient returns a client watching day.
func NewClient(day int) *Client {
	return &Client{Day: day, Send: make(chan []byte, sendBuffer)}
}

// Message is data for every client watching Day.
type Message struct {
	Day  int
	Data []byte
}

// Hub tracks connected clients grouped by day. All changes to the client map happen
// on the Run goroutine; mu lets ClientCount read it from elsewhere.
type Hub struct {
	clients map[int]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex
}

// NewHub creates a Hub. The broadcast channel is buffered so a burst of saves
// does not wait on slow fan-out.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub's event loop. Start it with "go hub.Run(ctx)"; it returns when
// ctx is cancelled, closing every client's Send channel on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for day, clients := range h.clients {
				for client := range clients {
					close(client.Send)
				}
				delete(h.clients, day)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Day] == nil {
				h.clients[client.Day] = make(map[*Client]bool)
			}
			h.clients[client.Day][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.Day] {
				select {
				case client.Send <- msg.Data:
				default:
					// Too far behind; drop it rather than stall everyone else.
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove deletes client and closes its Send channel. Callers hold mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.Day]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.Day)
	}
}

// BroadcastToDay sends data to every client watching day.
func (h *Hub) BroadcastToDay(day int, data []byte) {
	select {
	case h.broadcast <- &Message{Day: day, Data: data}:
	case <-h.done:
	}
}

// Register adds a client so it starts receiving broadcasts for its day.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client when its connection closes. Unregistering a client
// the hub already dropped is a no-op.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns how many clients are watching day.
func (h *Hub) ClientCount(day int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[day])
}
