package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alerts/internal/alerts"
	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// statusFor maps pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	var malformed *alerts.MalformedSeriesError
	switch {
	case errors.As(err, &malformed):
		return http.StatusBadGateway
	case errors.Is(err, alerts.ErrNotImplemented):
		return http.StatusNotImplemented
	case errors.Is(err, models.ErrUnknownAlertType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, log logger.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		log.Error(msg, "path", c.Request.URL.Path, "error", err)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"status": "error",
		"error":  err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": "error",
		"error":  msg,
	})
}
