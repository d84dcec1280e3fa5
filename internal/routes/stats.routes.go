package routes

import (
	"altesse/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterStatsRoutes(r gin.IRouter, stats *controllers.StatsController) {
	group := r.Group("/stats")
	group.GET("/widget", stats.GetWidgetStats)
	group.POST("/conversions", stats.RegisterConversion)
}
