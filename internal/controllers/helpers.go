package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"altesse/internal/common"
	"altesse/internal/hydrate"

	"github.com/gin-gonic/gin"
)

// respondError maps service and hydration errors to HTTP statuses
func respondError(c *gin.Context, log *slog.Logger, err error) {
	var decodeErr *hydrate.DecodeError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &decodeErr):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrDestinationExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrStatsUnavailable), errors.Is(err, common.ErrHubNotRunning):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", slog.String("path", c.FullPath()), slog.Any("error", err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// hydrateBody reads the raw request body and hydrates it with from
func hydrateBody[T any](c *gin.Context, from func(raw any) (T, error)) (T, error) {
	var zero T
	body, err := c.GetRawData()
	if err != nil {
		return zero, err
	}
	return from(body)
}
