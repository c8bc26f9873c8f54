package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/platformbuilds/mirador-alerts/internal/alerts"
	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/internal/tracing"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// OperationLister returns the known operation names of a service.
type OperationLister interface {
	GetOperations(ctx context.Context, serviceName string) ([]string, error)
}

// TrendSource returns per-operation trend series for a service.
type TrendSource interface {
	GetOperationStats(ctx context.Context, serviceName string, granularity, from, until int64) ([]models.OperationTrend, error)
}

// SeriesRenderer fetches raw series for a render target.
type SeriesRenderer interface {
	Render(ctx context.Context, req RenderRequest) ([]models.RawSeries, error)
}

// AlertsService fetches operations, anomaly series and trends for a service
// and runs them through the alerts pipeline.
type AlertsService struct {
	operations OperationLister
	trends     TrendSource
	renderer   SeriesRenderer
	tracer     *tracing.AlertTracer
	logger     logger.Logger

	// collapses concurrent identical summary requests
	group singleflight.Group
}

func NewAlertsService(operations OperationLister, trends TrendSource, renderer SeriesRenderer, tracer *tracing.AlertTracer, logger logger.Logger) *AlertsService {
	if tracer == nil {
		tracer = tracing.NewAlertTracer("mirador-alerts")
	}
	return &AlertsService{
		operations: operations,
		trends:     trends,
		renderer:   renderer,
		tracer:     tracer,
		logger:     logger,
	}
}

// GetServiceAlerts returns one entry per (operation, alert type) of the
// service, each with its current health and trend. Any fetch failure fails
// the call; there is no partial result.
func (s *AlertsService) GetServiceAlerts(ctx context.Context, serviceName string, query models.ServiceAlertsQuery) ([]models.MergedAlert, error) {
	key := fmt.Sprintf("%s|%d|%d|%d", serviceName, query.Granularity, query.From, query.Until)

	ch := s.group.DoChan(key, func() (interface{}, error) {
		// shared by every waiter, so one caller going away must not cancel it
		return s.serviceAlerts(context.WithoutCancel(ctx), serviceName, query)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.MergedAlert), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *AlertsService) serviceAlerts(ctx context.Context, serviceName string, query models.ServiceAlertsQuery) (merged []models.MergedAlert, err error) {
	start := time.Now()
	ctx, span := s.tracer.StartAlertSpan(ctx, "service_alerts", serviceName,
		attribute.Int64("alerts.granularity_ms", query.Granularity),
		attribute.Int64("alerts.from_ms", query.From),
		attribute.Int64("alerts.until_ms", query.Until),
	)
	defer func() {
		s.tracer.RecordResult(span, time.Since(start), len(merged), err)
		span.End()
		monitoring.RecordAlertOperation("service_alerts", time.Since(start), err == nil)
	}()

	var (
		operations []string
		rawAlerts  []models.RawSeries
		trends     []models.OperationTrend
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		operations, err = s.operations.GetOperations(gctx, serviceName)
		return err
	})
	g.Go(func() error {
		var err error
		rawAlerts, err = s.renderer.Render(gctx, RenderRequest{Target: alerts.ServiceAlertsTarget(serviceName)})
		return err
	})
	g.Go(func() error {
		var err error
		trends, err = s.trends.GetOperationStats(gctx, serviceName, query.Granularity, query.From, query.Until)
		return err
	})
	if err = g.Wait(); err != nil {
		s.logger.Error("Failed to fetch service alert inputs", "service", serviceName, "error", err)
		return nil, err
	}

	operationAlerts, err := alerts.ParseOperationAlerts(rawAlerts)
	if err != nil {
		s.logger.Error("Failed to parse service alerts", "service", serviceName, "error", err)
		return nil, err
	}

	merged = alerts.MergeOperationAlertsAndTrends(operations, operationAlerts, trends)

	unhealthy := 0
	for _, m := range merged {
		if m.IsUnhealthy {
			unhealthy++
		}
	}
	monitoring.SetUnhealthyAlerts(serviceName, unhealthy)

	s.logger.Debug("Service alerts computed",
		"service", serviceName,
		"operations", len(operations),
		"series", len(rawAlerts),
		"unhealthy", unhealthy,
		"took", time.Since(start),
	)
	return merged, nil
}

// GetAlertDetails returns the closed unhealthy windows of one operation and
// alert type, oldest first.
func (s *AlertsService) GetAlertDetails(ctx context.Context, serviceName, operationName, alertType string) (windows []models.UnhealthyWindow, err error) {
	start := time.Now()
	ctx, span := s.tracer.StartAlertSpan(ctx, "alert_details", serviceName,
		attribute.String("alerts.operation_name", operationName),
		attribute.String("alerts.alert_type", alertType),
	)
	defer func() {
		s.tracer.RecordResult(span, time.Since(start), len(windows), err)
		span.End()
		monitoring.RecordAlertOperation("alert_details", time.Since(start), err == nil)
	}()

	t, err := models.ParseAlertType(alertType)
	if err != nil {
		return nil, err
	}

	target := alerts.AlertTarget(string(t), operationName, serviceName)
	series, err := s.renderer.Render(ctx, RenderRequest{Target: target})
	if err != nil {
		s.logger.Error("Failed to fetch alert history", "target", target, "error", err)
		return nil, err
	}

	return alerts.ParseAlertDetailResponse(series), nil
}

// GetServiceUnhealthyAlertCount is reserved; it reports alerts.ErrNotImplemented.
func (s *AlertsService) GetServiceUnhealthyAlertCount(ctx context.Context, serviceName string) (int, error) {
	return alerts.UnhealthyAlertCount(serviceName)
}
