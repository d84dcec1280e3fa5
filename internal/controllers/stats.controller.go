package controllers

import (
	"log/slog"
	"net/http"

	"altesse/internal/models"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	stats *services.StatsService
	log   *slog.Logger
}

func NewStatsController(stats *services.StatsService, log *slog.Logger) *StatsController {
	return &StatsController{
		stats: stats,
		log:   log.With(slog.String("item", "StatsController")),
	}
}

// GetWidgetStats returns the conversion totals for the dashboard widget
func (s *StatsController) GetWidgetStats(c *gin.Context) {
	widget, err := s.stats.GetWidgetStats(c.Request.Context())
	if err != nil {
		respondError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}

// RegisterConversion records one finished conversion and returns the new totals
func (s *StatsController) RegisterConversion(c *gin.Context) {
	rec, err := hydrateBody(c, models.NewConversionRecordFrom)
	if err != nil {
		respondError(c, s.log, err)
		return
	}

	widget, err := s.stats.RegisterConversion(c.Request.Context(), rec)
	if err != nil {
		respondError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, widget)
}
