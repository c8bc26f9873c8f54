package config

// GetDefaultConfig returns a configuration with all default values
func GetDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Port:        8080,
		LogLevel:    "info",

		MetricTank: MetricTankConfig{
			Endpoints: []string{"http://localhost:6060"},
			Timeout:   DefaultHTTPTimeout,
			OrgID:     "1",
			Retries:   DefaultRetries,
			BackoffMS: DefaultBackoffMS,
		},
		VictoriaTraces: VictoriaTracesConfig{
			Endpoints: []string{"http://localhost:10428"},
			Timeout:   DefaultHTTPTimeout,
			Retries:   DefaultRetries,
			BackoffMS: DefaultBackoffMS,
		},
		Trends: TrendsConfig{
			CountTarget:        DefaultCountTarget,
			TP99DurationTarget: DefaultTP99DurationTarget,
			FailureTarget:      DefaultFailureTarget,
		},
		Alerts: AlertsConfig{
			SummaryCacheTTL: DefaultSummaryCacheTTL,
			HistoryCacheTTL: DefaultHistoryCacheTTL,
		},
		Cache: CacheConfig{
			Enabled: true,
			Nodes:   []string{"localhost:6379"},
			TTL:     DefaultCacheTTL,
		},
		CORS: CORSConfig{
			AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Cache", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           3600,
		},
		WebSocket: WebSocketConfig{
			Enabled:         true,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PushInterval:    DefaultWSPushInterval,
			PingInterval:    DefaultWSPingInterval,
		},
		Monitoring: MonitoringConfig{
			Enabled:      true,
			MetricsPath:  "/metrics",
			OTLPEndpoint: "localhost:4317",
		},
	}
}
