// Package monitoring provides the Prometheus metrics for MIRADOR-ALERTS.
//
// Usage:
//
//  1. Expose the endpoint and collect HTTP metrics:
//     router := gin.New()
//     router.Use(monitoring.HTTPMetricsMiddleware())
//     monitoring.SetupPrometheusMetrics(router, "/metrics")
//
//  2. Record backend and pipeline metrics where the work happens:
//     monitoring.RecordBackendQuery("metrictank", "render", time.Since(start), err == nil)
//     monitoring.RecordAlertOperation("service_alerts", time.Since(start), err == nil)
//     monitoring.RecordCacheOperation("get", "hit")
//
// Available Metrics:
//   - mirador_alerts_http_requests_total{method, endpoint, status_code}
//   - mirador_alerts_http_request_duration_seconds{method, endpoint}
//   - mirador_alerts_active_connections
//   - mirador_alerts_backend_queries_total{backend, query_type, status}
//   - mirador_alerts_backend_query_duration_seconds{backend, query_type}
//   - mirador_alerts_cache_operations_total{operation, result}
//   - mirador_alerts_alert_operations_total{operation, status}
//   - mirador_alerts_alert_operation_duration_seconds{operation}
//   - mirador_alerts_unhealthy_alerts{service}
//   - mirador_alerts_websocket_connections
//   - mirador_alerts_errors_total{type, component}
//   - mirador_alerts_build_info{version, component}
package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alerts_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_alerts_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirador_alerts_active_connections",
			Help: "Number of in-flight HTTP requests",
		},
	)

	// MetricTank render and VictoriaTraces Jaeger API calls
	backendQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alerts_backend_queries_total",
			Help: "Total number of backend queries",
		},
		[]string{"backend", "query_type", "status"},
	)

	backendQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_alerts_backend_query_duration_seconds",
			Help:    "Backend query duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"backend", "query_type"},
	)

	cacheOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alerts_cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"}, // result: hit, miss, success, error
	)

	alertOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alerts_alert_operations_total",
			Help: "Total number of alert pipeline operations",
		},
		[]string{"operation", "status"},
	)

	alertOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_alerts_alert_operation_duration_seconds",
			Help:    "Alert pipeline operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	unhealthyAlerts = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mirador_alerts_unhealthy_alerts",
			Help: "Unhealthy (operation, alert type) pairs in the latest summary of a service",
		},
		[]string{"service"},
	)

	websocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mirador_alerts_websocket_connections",
			Help: "Number of open alert stream connections",
		},
	)

	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_alerts_errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "component"}, // type: http, backend, cache, alerts
	)

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mirador_alerts_build_info",
			Help: "Build information for MIRADOR-ALERTS",
		},
		[]string{"version", "component"},
	)
)

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		// ignore AlreadyRegistered so tests can build several routers
		for _, c := range []prometheus.Collector{
			httpRequestsTotal,
			httpRequestDuration,
			activeConnections,
			backendQueriesTotal,
			backendQueryDuration,
			cacheOperationsTotal,
			alertOperationsTotal,
			alertOperationDuration,
			unhealthyAlerts,
			websocketConnections,
			errorsTotal,
			buildInfo,
		} {
			_ = prometheus.Register(c)
		}
	})
}

// SetupPrometheusMetrics registers the collectors and exposes them on path.
func SetupPrometheusMetrics(router gin.IRoutes, path string) {
	register()
	if path == "" {
		path = "/metrics"
	}
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// SetBuildInfo publishes the running version.
func SetBuildInfo(version, component string) {
	register()
	buildInfo.WithLabelValues(version, component).Set(1)
}

// HTTPMetricsMiddleware collects HTTP request metrics labelled by route template.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	register()
	return func(c *gin.Context) {
		start := time.Now()

		activeConnections.Inc()
		defer activeConnections.Dec()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())

		if status >= 500 {
			errorsTotal.WithLabelValues("http", endpoint).Inc()
		}
	}
}

// RecordBackendQuery records a MetricTank or VictoriaTraces call.
func RecordBackendQuery(backend, queryType string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		errorsTotal.WithLabelValues("backend", backend).Inc()
	}

	backendQueriesTotal.WithLabelValues(backend, queryType, status).Inc()
	backendQueryDuration.WithLabelValues(backend, queryType).Observe(duration.Seconds())
}

// RecordCacheOperation records cache operation metrics
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
	if result == "error" {
		errorsTotal.WithLabelValues("cache", operation).Inc()
	}
}

// RecordAlertOperation records one alerts service call.
func RecordAlertOperation(operation string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
		errorsTotal.WithLabelValues("alerts", operation).Inc()
	}

	alertOperationsTotal.WithLabelValues(operation, status).Inc()
	alertOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetUnhealthyAlerts publishes the unhealthy count of the latest summary.
func SetUnhealthyAlerts(service string, count int) {
	unhealthyAlerts.WithLabelValues(service).Set(float64(count))
}

// WebSocketConnected and WebSocketDisconnected track open alert streams.
func WebSocketConnected()    { websocketConnections.Inc() }
func WebSocketDisconnected() { websocketConnections.Dec() }
