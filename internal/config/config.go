package config

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`

	MetricTank     MetricTankConfig     `mapstructure:"metrictank" yaml:"metrictank"`
	VictoriaTraces VictoriaTracesConfig `mapstructure:"victoria_traces" yaml:"victoria_traces"`
	Trends         TrendsConfig         `mapstructure:"trends" yaml:"trends"`
	Alerts         AlertsConfig         `mapstructure:"alerts" yaml:"alerts"`
	Cache          CacheConfig          `mapstructure:"cache" yaml:"cache"`
	CORS           CORSConfig           `mapstructure:"cors" yaml:"cors"`
	WebSocket      WebSocketConfig      `mapstructure:"websocket" yaml:"websocket"`
	Monitoring     MonitoringConfig     `mapstructure:"monitoring" yaml:"monitoring"`
}

// MetricTankConfig points at a Graphite compatible render API (MetricTank,
// graphite-web, VictoriaMetrics graphite endpoint) holding anomaly and trend series.
type MetricTankConfig struct {
	Name      string   `mapstructure:"name" yaml:"name"`
	Endpoints []string `mapstructure:"endpoints" yaml:"endpoints"`
	Timeout   int      `mapstructure:"timeout" yaml:"timeout"` // milliseconds
	Username  string   `mapstructure:"username" yaml:"username"`
	Password  string   `mapstructure:"password" yaml:"password"`
	OrgID     string   `mapstructure:"org_id" yaml:"org_id"` // sent as X-Org-Id
	Retries   int      `mapstructure:"retries" yaml:"retries"`
	BackoffMS int      `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

// VictoriaTracesConfig is the Jaeger compatible source of service operations.
type VictoriaTracesConfig struct {
	Name      string   `mapstructure:"name" yaml:"name"`
	Endpoints []string `mapstructure:"endpoints" yaml:"endpoints"`
	Timeout   int      `mapstructure:"timeout" yaml:"timeout"` // milliseconds
	Username  string   `mapstructure:"username" yaml:"username"`
	Password  string   `mapstructure:"password" yaml:"password"`
	TenantID  string   `mapstructure:"tenant_id" yaml:"tenant_id"` // sent as AccountID
	Retries   int      `mapstructure:"retries" yaml:"retries"`
	BackoffMS int      `mapstructure:"backoff_ms" yaml:"backoff_ms"`
}

// TrendsConfig holds render target templates for operation trends.
// ${service} and ${interval} are substituted; the operation position must be "*".
type TrendsConfig struct {
	CountTarget        string `mapstructure:"count_target" yaml:"count_target"`
	TP99DurationTarget string `mapstructure:"tp99_duration_target" yaml:"tp99_duration_target"`
	FailureTarget      string `mapstructure:"failure_target" yaml:"failure_target"`
}

// AlertsConfig controls response caching of the alert endpoints.
type AlertsConfig struct {
	SummaryCacheTTL int `mapstructure:"summary_cache_ttl" yaml:"summary_cache_ttl"` // seconds, 0 disables
	HistoryCacheTTL int `mapstructure:"history_cache_ttl" yaml:"history_cache_ttl"` // seconds, 0 disables
}

// CacheConfig handles Valkey caching configuration
type CacheConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	Nodes    []string `mapstructure:"nodes" yaml:"nodes"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl"` // seconds
	Password string   `mapstructure:"password" yaml:"password"`
	DB       int      `mapstructure:"db" yaml:"db"`
}

// CORSConfig handles Cross-Origin Resource Sharing
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

type WebSocketConfig struct {
	Enabled         bool `mapstructure:"enabled" yaml:"enabled"`
	ReadBufferSize  int  `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int  `mapstructure:"write_buffer_size" yaml:"write_buffer_size"`
	PushInterval    int  `mapstructure:"push_interval" yaml:"push_interval"` // seconds
	PingInterval    int  `mapstructure:"ping_interval" yaml:"ping_interval"` // seconds
}

type MonitoringConfig struct {
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
	MetricsPath    string `mapstructure:"metrics_path" yaml:"metrics_path"`
	TracingEnabled bool   `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
