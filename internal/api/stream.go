package api

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ReturnEvent describes websocket payloads emitted as return requests are
// decided.
type ReturnEvent struct {
	Type      string             `json:"type"`
	RequestID string             `json:"request_id"`
	OrderID   string             `json:"order_id"`
	Outcome   string             `json:"outcome,omitempty"`
	Decision  *ReturnDecisionDTO `json:"decision,omitempty"`
	Message   string             `json:"message,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// wsClient wraps a websocket connection with write locking.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// ReturnNotifier keeps track of active websocket clients and broadcasts
// return decision events.
type ReturnNotifier struct {
	mu         sync.Mutex
	clients    map[*wsClient]struct{}
	lastStatus *ReturnEvent
}

// NewReturnNotifier constructs a notifier instance.
func NewReturnNotifier() *ReturnNotifier {
	return &ReturnNotifier{clients: make(map[*wsClient]struct{})}
}

// Register attaches a websocket connection and returns a client handle. The
// most recent event is replayed so late subscribers see current state.
func (n *ReturnNotifier) Register(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn}
	n.mu.Lock()
	n.clients[client] = struct{}{}
	status := n.lastStatus
	n.mu.Unlock()

	if status != nil {
		_ = client.writeJSON(*status)
	}
	return client
}

// Unregister removes the websocket client from the notifier and closes the
// socket.
func (n *ReturnNotifier) Unregister(client *wsClient) {
	if client == nil {
		return
	}
	n.mu.Lock()
	delete(n.clients, client)
	n.mu.Unlock()
	_ = client.conn.Close()
}

// Broadcast sends the supplied event to all registered websocket clients.
func (n *ReturnNotifier) Broadcast(event ReturnEvent) {
	event.Timestamp = time.Now().UTC()

	n.mu.Lock()
	snapshot := event
	snapshot.Decision = nil
	n.lastStatus = &snapshot

	for client := range n.clients {
		if err := client.writeJSON(event); err != nil {
			delete(n.clients, client)
			_ = client.conn.Close()
		}
	}
	n.mu.Unlock()
}

// LastStatus returns a copy of the most recently broadcast event.
func (n *ReturnNotifier) LastStatus() *ReturnEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.lastStatus == nil {
		return nil
	}
	copy := *n.lastStatus
	return &copy
}

func (c *wsClient) writeJSON(payload interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(payload)
}
