package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/mirador-alerts/internal/alerts"
	"github.com/platformbuilds/mirador-alerts/internal/models"
)

type fakeAlerts struct {
	mu sync.Mutex

	summary      []models.MergedAlert
	summaryErr   error
	summaryCalls int
	lastQuery    models.ServiceAlertsQuery

	windows      []models.UnhealthyWindow
	windowsErr   error
	historyCalls int
	lastHistory  [3]string
}

func (f *fakeAlerts) GetServiceAlerts(ctx context.Context, serviceName string, query models.ServiceAlertsQuery) ([]models.MergedAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	f.lastQuery = query
	return f.summary, f.summaryErr
}

func (f *fakeAlerts) GetAlertDetails(ctx context.Context, serviceName, operationName, alertType string) ([]models.UnhealthyWindow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	f.lastHistory = [3]string{serviceName, operationName, alertType}
	return f.windows, f.windowsErr
}

func (f *fakeAlerts) GetServiceUnhealthyAlertCount(ctx context.Context, serviceName string) (int, error) {
	return alerts.UnhealthyAlertCount(serviceName)
}

type fakeChecker struct{ err error }

func (f fakeChecker) HealthCheck(context.Context) error { return f.err }

var errUpstream = errors.New("metrictank unreachable")

func init() { gin.SetMode(gin.TestMode) }

func int64p(v int64) *int64 { return &v }
