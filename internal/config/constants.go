package config

const (
	ServiceName    = "mirador-alerts"
	ServiceVersion = "v0.4.0"
	APIVersion     = "v1"

	// Default timeouts (milliseconds)
	DefaultHTTPTimeout     = 30000
	DefaultShutdownTimeout = 30000

	DefaultRetries   = 3
	DefaultBackoffMS = 1000

	// Cache settings (seconds)
	DefaultCacheTTL        = 300
	DefaultSummaryCacheTTL = 60
	DefaultHistoryCacheTTL = 60

	// WebSocket (seconds)
	DefaultWSPushInterval = 30
	DefaultWSPingInterval = 30

	// Trend render templates
	DefaultCountTarget        = "serviceName.${service}.operationName.*.interval.${interval}.stat.count.received-span"
	DefaultTP99DurationTarget = "serviceName.${service}.operationName.*.interval.${interval}.stat.*_99.duration"
	DefaultFailureTarget      = "serviceName.${service}.operationName.*.interval.${interval}.stat.count.failure-span"
)
