package routes

import (
	"altesse/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterEventRoutes(r gin.IRouter, events *controllers.EventsController) {
	r.POST("/events/progress", events.ReportProgress)
}
