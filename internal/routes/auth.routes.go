package routes

import (
	"altesse/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the WebSocket endpoint. Tokens are issued
// through the CLI only.
func RegisterAuthRoutes(r gin.IRouter, ws *controllers.WebSocketController) {
	r.GET("/ws", ws.HandleWebSocket)
}
