package routes

import (
	"log/slog"
	"net/http"
	"time"

	"altesse/internal/controllers"
	"altesse/internal/middleware"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Options carries everything NewRouter wires into the engine
type Options struct {
	Stats *services.StatsService
	Files *services.FileService
	Hub   *services.WebSocketHub

	// Auth protects every route but /health. Nil disables authentication.
	Auth *services.AuthService

	AllowedOrigins []string
	RateLimit      rate.Limit
	RateBurst      int
	PingInterval   time.Duration

	Log *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes registered
func NewRouter(opts Options) *gin.Engine {
	if opts.RateLimit == 0 {
		opts.RateLimit = 50
	}
	if opts.RateBurst == 0 {
		opts.RateBurst = 100
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst), opts.Log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"clients": opts.Hub.ClientCount(),
		})
	})

	api := r.Group("/")
	if opts.Auth != nil {
		api.Use(middleware.AuthMiddleware(opts.Auth, opts.Log))
	}

	RegisterStatsRoutes(api, controllers.NewStatsController(opts.Stats, opts.Log))
	RegisterFileRoutes(api, controllers.NewFilesController(opts.Files, opts.Log))
	RegisterEventRoutes(api, controllers.NewEventsController(opts.Hub, opts.Log))
	RegisterAuthRoutes(api, controllers.NewWebSocketController(opts.Hub, opts.PingInterval, opts.Log))

	return r
}
