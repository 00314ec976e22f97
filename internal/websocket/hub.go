// Package websocket implements a WebSocket Hub for pushing leaderboard refresh
// notices. Clients watching a leaderboard subscribe to a board key (gross/net,
// optionally narrowed to a club); when an upload commits, the server pushes a
// notice to every subscriber of the affected boards so they re-fetch instantly
// instead of polling the API.
package websocket

import "sync"

// Client represents a single connected WebSocket client.
type Client struct {
	Board string      // Which leaderboard this client is watching, e.g. "net" or "net:lakeview"
	Send  chan []byte // Buffered channel of outgoing messages; the Hub writes here, the WebSocket writer drains it
}

// Message is a unit of data to broadcast to all clients watching one board.
type Message struct {
	Board string
	Data  []byte // Raw bytes to send (typically a JSON refresh notice)
}

// Hub manages all active WebSocket connections, grouped by board key.
// It runs in its own goroutine and processes registration, unregistration, and
// broadcast events through channels — this keeps all map mutation on a single
// goroutine, which avoids data races (concurrent map writes panic in Go).
type Hub struct {
	// clients is a nested map: board key -> set of Client pointers.
	// A map[*Client]bool as a "set" is a common Go idiom since Go has no
	// built-in set type.
	clients map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// mu protects the clients map. All mutation happens on the Run goroutine,
	// but the lock keeps any future read-side accessors safe too.
	mu sync.RWMutex
}

// NewHub creates a Hub with empty channels and maps. The broadcast channel is
// buffered (256) so upload handlers don't block if the Hub goroutine is
// briefly busy; register and unregister stay unbuffered because those need to
// complete synchronously.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the Hub's main event loop. Call it in a goroutine ("go hub.Run()");
// it blocks forever, processing one event at a time.
func (h *Hub) Run() {
	for {
		select {

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Board] == nil {
				h.clients[client.Board] = make(map[*Client]bool)
			}
			h.clients[client.Board][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.Board]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send) // signals the writer goroutine to stop
					if len(clients) == 0 {
						delete(h.clients, client.Board)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			clients := h.clients[msg.Board]
			for client := range clients {
				select {
				case client.Send <- msg.Data:
				// A full Send buffer means the client is too slow — drop and
				// disconnect it rather than blocking the loop for everyone else.
				default:
					delete(clients, client)
					close(client.Send)
				}
			}
			if len(clients) == 0 {
				delete(h.clients, msg.Board)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToBoard sends data to all clients watching the given board key.
// Called by the upload handler after a commit.
func (h *Hub) BroadcastToBoard(board string, data []byte) {
	h.broadcast <- &Message{Board: board, Data: data}
}

// Register adds a client so it starts receiving broadcasts for its board.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client when its connection closes.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
