package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

func dialStream(t *testing.T, f *fakeAlerts, done chan struct{}, path string) *websocket.Conn {
	t.Helper()
	h := NewAlertsStreamHandler(f, config.WebSocketConfig{PushInterval: 1, PingInterval: 30}, nil, done, logger.NewNop())
	r := gin.New()
	r.GET("/api/v1/ws/alerts/:serviceName", h.HandleServiceAlertsStream)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAlertsStream_PushesSummary(t *testing.T) {
	f := &fakeAlerts{summary: []models.MergedAlert{{
		OperationAlert: models.OperationAlert{OperationName: "op", Type: models.AlertTypeFailureCount},
		Trend:          []models.TrendPoint{},
	}}}
	conn := dialStream(t, f, make(chan struct{}), "/api/v1/ws/alerts/svc?granularity=60000")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type    string               `json:"type"`
		Service string               `json:"service"`
		Data    []models.MergedAlert `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "service_alerts", msg.Type)
	assert.Equal(t, "svc", msg.Service)
	require.Len(t, msg.Data, 1)
	assert.Equal(t, "op", msg.Data[0].OperationName)

	// the ticker keeps pushing
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "service_alerts", msg.Type)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.GreaterOrEqual(t, f.summaryCalls, 2)
	assert.Equal(t, int64(60000), f.lastQuery.Granularity)
}

func TestAlertsStream_ReportsErrors(t *testing.T) {
	conn := dialStream(t, &fakeAlerts{summaryErr: errUpstream}, make(chan struct{}), "/api/v1/ws/alerts/svc")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg["type"])
	assert.Equal(t, errUpstream.Error(), msg["error"])
}

func TestAlertsStream_ClosesOnShutdown(t *testing.T) {
	done := make(chan struct{})
	conn := dialStream(t, &fakeAlerts{summary: []models.MergedAlert{}}, done, "/api/v1/ws/alerts/svc")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))

	close(done)
	for {
		if err := conn.ReadJSON(&msg); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
			return
		}
	}
}
