package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/platformbuilds/mirador-alerts/internal/api/handlers"
	"github.com/platformbuilds/mirador-alerts/internal/api/middleware"
	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/pkg/cache"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// Backends groups the readiness probes of the upstream systems.
type Backends struct {
	MetricTank     handlers.HealthChecker
	VictoriaTraces handlers.HealthChecker
}

type Server struct {
	config     *config.Config
	logger     logger.Logger
	cache      cache.ValkeyCluster
	alerts     handlers.AlertsAPI
	backends   Backends
	router     *gin.Engine
	httpServer *http.Server

	// closed when shutdown starts; ends hijacked websocket streams
	streamsDone chan struct{}
	stopStreams sync.Once
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	valkeyCache cache.ValkeyCluster,
	alerts handlers.AlertsAPI,
	backends Backends,
) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:   cfg,
		logger:   log,
		cache:    valkeyCache,
		alerts:   alerts,
		backends: backends,
		router:   router,

		streamsDone: make(chan struct{}),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())

	s.router.Use(middleware.RequestID())

	// CORS for the alerts UI
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	s.router.Use(middleware.RequestLogger(s.logger))

	// OpenAPI document and Swagger UI (visit /swagger/index.html)
	s.router.GET("/api/openapi.yaml", handlers.GetOpenAPIYAML)
	s.router.GET("/api/openapi.json", handlers.GetOpenAPISpec)
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/api/openapi.yaml")))

	if s.config.Monitoring.Enabled {
		s.router.Use(middleware.MetricsMiddleware())
		monitoring.SetupPrometheusMetrics(s.router, s.config.Monitoring.MetricsPath)
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.logger)
	if s.backends.MetricTank != nil {
		healthHandler.AddCheck("metrictank", s.backends.MetricTank, true)
	}
	if s.backends.VictoriaTraces != nil {
		healthHandler.AddCheck("victoria_traces", s.backends.VictoriaTraces, true)
	}
	if s.cache != nil {
		// the in-memory fallback keeps serving, so cache trouble only degrades
		healthHandler.AddCheck("valkey", s.cache, false)
	}

	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)

	v1 := s.router.Group("/api/" + config.APIVersion)
	v1.GET("/health", healthHandler.HealthCheck)
	v1.GET("/ready", healthHandler.ReadinessCheck)

	alertsHandler := handlers.NewAlertsHandler(
		s.alerts,
		s.cache,
		time.Duration(s.config.Alerts.SummaryCacheTTL)*time.Second,
		time.Duration(s.config.Alerts.HistoryCacheTTL)*time.Second,
		s.logger,
	)
	v1.GET("/alerts/:serviceName", alertsHandler.GetServiceAlerts)
	v1.GET("/alerts/:serviceName/unhealthyCount", alertsHandler.GetUnhealthyAlertCount)
	v1.GET("/alert/:serviceName/:operationName/:alertType/history", alertsHandler.GetAlertHistory)

	if s.config.WebSocket.Enabled {
		stream := handlers.NewAlertsStreamHandler(s.alerts, s.config.WebSocket, middleware.OriginChecker(s.config.CORS), s.streamsDone, s.logger)
		v1.GET("/ws/alerts/:serviceName", stream.HandleServiceAlertsStream)
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// no WriteTimeout: websocket streams are long lived
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("MIRADOR-ALERTS REST API server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down MIRADOR-ALERTS gracefully")
	}

	s.stopStreams.Do(func() { close(s.streamsDone) })

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout*time.Millisecond)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
