package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"altesse/internal/common"

	"github.com/gorilla/websocket"
)

const (
	EventStatsUpdate        = "stats:update"
	EventConversionProgress = "conversion-progress"
	EventPong               = "pong"
	EventError              = "error"
)

// WebSocketMessage is the envelope for every frame pushed to or read from a client
type WebSocketMessage struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// NewClientConnection wraps an upgraded connection with a buffered send queue
func NewClientConnection(id string, conn *websocket.Conn) *ClientConnection {
	return &ClientConnection{
		ID:   id,
		Conn: conn,
		Send: make(chan WebSocketMessage, 256),
	}
}

// WebSocketHub fans events out to every connected client
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	done       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewWebSocketHub(log *slog.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
		log:        log.With(slog.String("item", "WebSocketHub")),
	}
}

// Run manages the hub's event loop until ctx is cancelled. Every client
// send channel is closed on the way out.
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			h.log.Info("[WS] Hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("[WS] Client connected", slog.String("client", client.ID), slog.Int("total", total))

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("[WS] Client disconnected", slog.String("client", clientID), slog.Int("total", total))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					h.log.Warn("[WS] Send queue full, dropping event", slog.String("client", client.ID), slog.String("type", msg.Type))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client to the hub. If the hub has stopped the client's
// send channel is closed right away.
func (h *WebSocketHub) Register(client *ClientConnection) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// Publish marshals payload and queues it for every client. Events are
// dropped when the broadcast queue is full.
func (h *WebSocketHub) Publish(eventType string, payload any) error {
	msg, err := newMessage(eventType, payload)
	if err != nil {
		return err
	}

	select {
	case <-h.done:
		return common.ErrHubNotRunning
	default:
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("[WS] Broadcast queue full, dropping event", slog.String("type", eventType))
	}
	return nil
}

// SendTo queues a message for a single client. Unknown clients and full
// queues are ignored.
func (h *WebSocketHub) SendTo(clientID string, msg WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return
	}

	select {
	case client.Send <- msg:
	default:
	}
}

// ClientCount returns the number of registered clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func newMessage(eventType string, payload any) (WebSocketMessage, error) {
	msg := WebSocketMessage{
		Type:      eventType,
		Timestamp: time.Now(),
	}
	if payload == nil {
		return msg, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return msg, fmt.Errorf("cannot marshal %s event: %w", eventType, err)
	}
	msg.Data = data
	return msg, nil
}
