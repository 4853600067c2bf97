package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"iqfieldbot/pkg/logger"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSessionProgress MessageType = "session_progress"
	MsgSessionClosed   MessageType = "session_closed"
	MsgError           MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections watching test sessions
type Hub struct {
	// sessionID -> watcher connections
	watchers map[string]map[*Connection]struct{}

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection watching a session
type Connection struct {
	SessionID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast to a session's watchers.
// Teardown requests travel on the same channel as messages so every
// event queued before the teardown is delivered first.
type BroadcastMessage struct {
	SessionID string
	Message   *Message
	teardown  bool
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.SessionID] == nil {
				h.watchers[conn.SessionID] = make(map[*Connection]struct{})
			}
			h.watchers[conn.SessionID][conn] = struct{}{}
			h.mu.Unlock()
			logger.Log.Debug("watcher connected",
				zap.String("sessionId", conn.SessionID),
				zap.String("userId", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.SessionID]; ok {
				if _, ok := conns[conn]; ok {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.watchers, conn.SessionID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			if msg.teardown {
				h.mu.Lock()
				for conn := range h.watchers[msg.SessionID] {
					close(conn.Send)
				}
				delete(h.watchers, msg.SessionID)
				h.mu.Unlock()
				continue
			}

			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.SessionID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a watcher connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a watcher connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToSession sends a message to all watchers of a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes all watcher connections for a session after
// any already-queued messages for it have been delivered (implements
// service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.broadcast <- &BroadcastMessage{SessionID: sessionID, teardown: true}
}
