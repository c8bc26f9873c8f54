package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// HealthChecker is anything that can probe its own backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type healthCheck struct {
	name     string
	checker  HealthChecker
	required bool // a failing optional check reports "degraded" without failing readiness
}

type HealthHandler struct {
	checks []healthCheck
	logger logger.Logger
}

func NewHealthHandler(logger logger.Logger) *HealthHandler {
	return &HealthHandler{logger: logger}
}

// AddCheck registers a readiness probe.
func (h *HealthHandler) AddCheck(name string, checker HealthChecker, required bool) *HealthHandler {
	h.checks = append(h.checks, healthCheck{name: name, checker: checker, required: required})
	return h
}

// GET /health - Quick health check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GET /ready - backend readiness
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]interface{}, len(h.checks))
	overallHealthy := true

	for _, hc := range h.checks {
		if err := hc.checker.HealthCheck(ctx); err != nil {
			state := "degraded"
			if hc.required {
				state = "unhealthy"
				overallHealthy = false
			}
			checks[hc.name] = map[string]interface{}{"status": state, "error": err.Error()}
			h.logger.Warn("Readiness check failed", "check", hc.name, "required", hc.required, "error", err)
			continue
		}
		checks[hc.name] = map[string]interface{}{"status": "healthy"}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !overallHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, gin.H{
		"status":    status,
		"service":   config.ServiceName,
		"version":   config.ServiceVersion,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
