package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

const writeWait = 10 * time.Second

// streamMessage is the envelope pushed to alert stream clients.
type streamMessage struct {
	Type      string      `json:"type"`
	Service   string      `json:"service,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// AlertsStreamHandler pushes a service alert summary over a websocket at a
// fixed interval.
type AlertsStreamHandler struct {
	upgrader     websocket.Upgrader
	alerts       AlertsAPI
	pushInterval time.Duration
	pingInterval time.Duration
	done         <-chan struct{} // closed on server shutdown
	logger       logger.Logger
}

func NewAlertsStreamHandler(alerts AlertsAPI, cfg config.WebSocketConfig, allowOrigin func(string) bool, done <-chan struct{}, logger logger.Logger) *AlertsStreamHandler {
	push := time.Duration(cfg.PushInterval) * time.Second
	if push <= 0 {
		push = config.DefaultWSPushInterval * time.Second
	}
	ping := time.Duration(cfg.PingInterval) * time.Second
	if ping <= 0 {
		ping = config.DefaultWSPingInterval * time.Second
	}
	return &AlertsStreamHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
		alerts:       alerts,
		pushInterval: push,
		pingInterval: ping,
		done:         done,
		logger:       logger,
	}
}

// GET /api/v1/ws/alerts/:serviceName - live service alert summary
func (h *AlertsStreamHandler) HandleServiceAlertsStream(c *gin.Context) {
	serviceName := c.Param("serviceName")
	query, err := bindServiceAlertsQuery(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed (alerts)", "error", err)
		return
	}
	defer conn.Close()

	monitoring.WebSocketConnected()
	defer monitoring.WebSocketDisconnected()
	h.logger.Info("WebSocket client connected", "stream", "alerts", "service", serviceName)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// reader: only needed to observe close frames and peer disconnects
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	push := func() bool {
		msg := streamMessage{Type: "service_alerts", Service: serviceName, Timestamp: time.Now().Format(time.RFC3339)}
		result, err := h.alerts.GetServiceAlerts(ctx, serviceName, query)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			h.logger.Warn("Alert stream refresh failed", "service", serviceName, "error", err)
			msg.Type = "error"
			msg.Error = err.Error()
		} else {
			msg.Data = result
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("WebSocket write failed", "service", serviceName, "error", err)
			return false
		}
		return true
	}

	if !push() {
		return
	}

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	// heartbeat so idle proxies don't drop us
	heartbeat := time.NewTicker(h.pingInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ticker.C:
			if !push() {
				return
			}

		case <-heartbeat.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(streamMessage{
				Type:      "heartbeat",
				Service:   serviceName,
				Timestamp: time.Now().Format(time.RFC3339),
			}); err != nil {
				return
			}

		case <-h.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return

		case <-ctx.Done():
			h.logger.Info("WebSocket client disconnected", "stream", "alerts", "service", serviceName)
			return
		}
	}
}
