package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
)

// MetricsMiddleware records Prometheus request metrics
func MetricsMiddleware() gin.HandlerFunc {
	return monitoring.HTTPMetricsMiddleware()
}
