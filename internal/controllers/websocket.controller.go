package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"altesse/internal/middleware"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

type WebSocketController struct {
	hub          *services.WebSocketHub
	pingInterval time.Duration
	upgrader     websocket.Upgrader
	log          *slog.Logger
}

func NewWebSocketController(hub *services.WebSocketHub, pingInterval time.Duration, log *slog.Logger) *WebSocketController {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &WebSocketController{
		hub:          hub,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are filtered by the CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log.With(slog.String("item", "WebSocketController")),
	}
}

// HandleWebSocket upgrades the request and registers the client with the hub
func (w *WebSocketController) HandleWebSocket(c *gin.Context) {
	ws, err := w.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		w.log.Warn("[WS] Upgrade error", slog.String("ip", c.ClientIP()), slog.Any("error", err))
		return
	}

	clientID := uuid.NewString()
	if name := c.GetString(middleware.ClientNameKey); name != "" {
		clientID = name + "-" + clientID
	}

	client := services.NewClientConnection(clientID, ws)
	w.hub.Register(client)

	go w.readPump(client)
	go w.writePump(client)
}

// readPump reads control messages until the client goes away
func (w *WebSocketController) readPump(client *services.ClientConnection) {
	defer func() {
		w.hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	deadline := w.pingInterval * 2
	_ = client.Conn.SetReadDeadline(time.Now().Add(deadline))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(deadline))
	})

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Warn("[WS] Read error", slog.String("client", client.ID), slog.Any("error", err))
			}
			return
		}
		_ = client.Conn.SetReadDeadline(time.Now().Add(deadline))

		switch msg.Type {
		case "ping":
			w.hub.SendTo(client.ID, services.WebSocketMessage{Type: services.EventPong, Timestamp: time.Now()})
		case "subscribe":
			// every client already receives every event
		case "unsubscribe":
			return
		default:
			w.log.Debug("[WS] Unknown message type", slog.String("client", client.ID), slog.String("type", msg.Type))
		}
	}
}

// writePump drains the client's send queue and keeps the connection alive
func (w *WebSocketController) writePump(client *services.ClientConnection) {
	ticker := time.NewTicker(w.pingInterval)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				w.log.Debug("[WS] Write error", slog.String("client", client.ID), slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
