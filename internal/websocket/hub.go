package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of active widget sessions
type Hub struct {
	// Registered sessions map: SessionID -> Client
	clients map[string]*Client

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.SessionID]; ok {
				close(old.send)
				delete(h.clients, client.SessionID)
			}
			h.clients[client.SessionID] = client
			log.Printf("💬 Widget session connected: %s", client.SessionID)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.SessionID]; ok {
				delete(h.clients, client.SessionID)
				close(client.send)
				log.Printf("👋 Widget session disconnected: %s", client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// SessionCount returns the number of live widget sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendToSession sends a message to a specific session
func (h *Hub) SendToSession(sessionID string, message interface{}) bool {
	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return false
	}

	select {
	case client.send <- jsonMsg:
		return true
	default:
		// Buffer full or client dead
		return false
	}
}
