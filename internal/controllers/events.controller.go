package controllers

import (
	"log/slog"
	"net/http"

	"altesse/internal/models"
	"altesse/internal/services"

	"github.com/gin-gonic/gin"
)

// EventsController relays events reported by converters to subscribers
type EventsController struct {
	events services.EventPublisher
	log    *slog.Logger
}

func NewEventsController(events services.EventPublisher, log *slog.Logger) *EventsController {
	return &EventsController{
		events: events,
		log:    log.With(slog.String("item", "EventsController")),
	}
}

func (e *EventsController) ReportProgress(c *gin.Context) {
	progress, err := hydrateBody(c, models.NewConversionProgressFrom)
	if err != nil {
		respondError(c, e.log, err)
		return
	}

	if err := e.events.Publish(services.EventConversionProgress, progress); err != nil {
		respondError(c, e.log, err)
		return
	}
	c.Status(http.StatusAccepted)
}
