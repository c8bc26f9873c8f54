package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/pkg/cache"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// AlertsAPI is the alerts service surface the handlers depend on.
type AlertsAPI interface {
	GetServiceAlerts(ctx context.Context, serviceName string, query models.ServiceAlertsQuery) ([]models.MergedAlert, error)
	GetAlertDetails(ctx context.Context, serviceName, operationName, alertType string) ([]models.UnhealthyWindow, error)
	GetServiceUnhealthyAlertCount(ctx context.Context, serviceName string) (int, error)
}

type AlertsHandler struct {
	alerts     AlertsAPI
	cache      cache.ValkeyCluster
	summaryTTL time.Duration // 0 disables caching
	historyTTL time.Duration
	logger     logger.Logger
}

func NewAlertsHandler(alerts AlertsAPI, c cache.ValkeyCluster, summaryTTL, historyTTL time.Duration, logger logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		alerts:     alerts,
		cache:      c,
		summaryTTL: summaryTTL,
		historyTTL: historyTTL,
		logger:     logger,
	}
}

// bindServiceAlertsQuery reads granularity/from/until (milliseconds).
func bindServiceAlertsQuery(c *gin.Context) (models.ServiceAlertsQuery, error) {
	var q models.ServiceAlertsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, fmt.Errorf("invalid query parameters: %w", err)
	}
	if q.Granularity < 0 || q.From < 0 || q.Until < 0 {
		return q, fmt.Errorf("granularity, from and until must not be negative")
	}
	if q.From > 0 && q.Until > 0 && q.From > q.Until {
		return q, fmt.Errorf("from must not be after until")
	}
	return q, nil
}

// GET /api/v1/alerts/:serviceName - current health of every operation and alert type
func (h *AlertsHandler) GetServiceAlerts(c *gin.Context) {
	serviceName := c.Param("serviceName")
	query, err := bindServiceAlertsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	key := fmt.Sprintf("service_alerts:%s:%d:%d:%d", serviceName, query.Granularity, query.From, query.Until)
	if h.serveCached(c, key, h.summaryTTL) {
		return
	}

	result, err := h.alerts.GetServiceAlerts(c.Request.Context(), serviceName, query)
	if err != nil {
		writeError(c, h.logger, "Failed to get service alerts", err)
		return
	}

	h.store(c.Request.Context(), key, result, h.summaryTTL)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, result)
}

// GET /api/v1/alert/:serviceName/:operationName/:alertType/history - unhealthy windows
func (h *AlertsHandler) GetAlertHistory(c *gin.Context) {
	serviceName := c.Param("serviceName")
	operationName := c.Param("operationName")
	alertType, err := models.ParseAlertType(c.Param("alertType"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	key := fmt.Sprintf("alert_history:%s:%s:%s", serviceName, operationName, alertType)
	if h.serveCached(c, key, h.historyTTL) {
		return
	}

	windows, err := h.alerts.GetAlertDetails(c.Request.Context(), serviceName, operationName, string(alertType))
	if err != nil {
		writeError(c, h.logger, "Failed to get alert history", err)
		return
	}

	h.store(c.Request.Context(), key, windows, h.historyTTL)
	c.Header("X-Cache", "MISS")
	c.JSON(http.StatusOK, windows)
}

// GET /api/v1/alerts/:serviceName/unhealthyCount - reserved
func (h *AlertsHandler) GetUnhealthyAlertCount(c *gin.Context) {
	serviceName := c.Param("serviceName")
	count, err := h.alerts.GetServiceUnhealthyAlertCount(c.Request.Context(), serviceName)
	if err != nil {
		writeError(c, h.logger, "Failed to get unhealthy alert count", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"serviceName": serviceName,
		"count":       count,
	})
}

// serveCached writes a cached body and reports whether it did.
func (h *AlertsHandler) serveCached(c *gin.Context, key string, ttl time.Duration) bool {
	if h.cache == nil || ttl <= 0 {
		return false
	}
	cached, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		return false
	}
	c.Header("X-Cache", "HIT")
	c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
	return true
}

func (h *AlertsHandler) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if h.cache == nil || ttl <= 0 {
		return
	}
	if err := h.cache.Set(ctx, key, value, ttl); err != nil {
		h.logger.Warn("Failed to cache response", "key", key, "error", err)
	}
}
