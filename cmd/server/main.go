package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platformbuilds/mirador-alerts/internal/api"
	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/internal/services"
	"github.com/platformbuilds/mirador-alerts/internal/tracing"
	"github.com/platformbuilds/mirador-alerts/pkg/cache"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting MIRADOR-ALERTS", "version", config.ServiceVersion, "environment", cfg.Environment)
	monitoring.SetBuildInfo(config.ServiceVersion, "server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.TracingEnabled {
		tp, err := tracing.NewTracerProvider(ctx, config.ServiceName, config.ServiceVersion, cfg.Monitoring.OTLPEndpoint)
		if err != nil {
			logger.Warn("Tracing disabled: failed to create tracer provider", "error", err)
		} else {
			logger.Info("OpenTelemetry tracing enabled", "endpoint", cfg.Monitoring.OTLPEndpoint)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Tracer provider shutdown failed", "error", err)
				}
			}()
		}
	}

	// Valkey response cache; falls back to in-memory when unreachable
	valkeyCache := cache.New(cache.Options{
		Enabled:  cfg.Cache.Enabled,
		Nodes:    cfg.Cache.Nodes,
		DB:       cfg.Cache.DB,
		Password: cfg.Cache.Password,
		TTL:      time.Duration(cfg.Cache.TTL) * time.Second,
	}, logger)
	logger.Info("Valkey cache initialized", "enabled", cfg.Cache.Enabled, "nodes", len(cfg.Cache.Nodes))
	if s, ok := valkeyCache.(interface{ Stop() }); ok {
		defer s.Stop()
	}

	// Backends
	metrictank := services.NewMetricTankService(cfg.MetricTank, logger)
	victoriaTraces := services.NewVictoriaTracesService(cfg.VictoriaTraces, logger)
	trends := services.NewTrendsService(metrictank, cfg.Trends, logger)
	alerts := services.NewAlertsService(victoriaTraces, trends, metrictank, tracing.NewAlertTracer(config.ServiceName), logger)

	// Hot reload of log level and backend endpoints
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		watcher := config.NewConfigWatcher(path, cfg, logger)
		watcher.RegisterWatcher(func(newCfg *config.Config) {
			if ls, ok := logger.(interface{ SetLevel(string) }); ok {
				ls.SetLevel(newCfg.LogLevel)
			}
			metrictank.ReplaceEndpoints(newCfg.MetricTank.Endpoints)
			victoriaTraces.ReplaceEndpoints(newCfg.VictoriaTraces.Endpoints)
			logger.Info("Configuration reloaded", "log_level", newCfg.LogLevel)
		})
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Warn("Config watcher not started", "path", path, "error", err)
			}
		}()
		defer watcher.Stop()
	}

	apiServer := api.NewServer(cfg, logger, valkeyCache, alerts, api.Backends{
		MetricTank:     metrictank,
		VictoriaTraces: victoriaTraces,
	})

	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed", "error", err)
	}

	logger.Info("MIRADOR-ALERTS shutdown complete")
}
