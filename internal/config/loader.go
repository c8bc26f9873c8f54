package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (CONFIG_PATH, or config.yaml in the search paths)
// 3. Default values
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_PATH"))
}

// LoadFrom is Load with an explicit config file path; an empty path searches
// the default locations.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mirador-alerts/")
		v.AddConfigPath("./configs/")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MIRADOR_ALERTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - continue with env vars and defaults
	}

	overrideWithEnvVars(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested values.
func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault("environment", d.Environment)
	v.SetDefault("port", d.Port)
	v.SetDefault("log_level", d.LogLevel)

	v.SetDefault("metrictank.name", "metrictank")
	v.SetDefault("metrictank.endpoints", d.MetricTank.Endpoints)
	v.SetDefault("metrictank.timeout", d.MetricTank.Timeout)
	v.SetDefault("metrictank.username", "")
	v.SetDefault("metrictank.password", "")
	v.SetDefault("metrictank.org_id", d.MetricTank.OrgID)
	v.SetDefault("metrictank.retries", d.MetricTank.Retries)
	v.SetDefault("metrictank.backoff_ms", d.MetricTank.BackoffMS)

	v.SetDefault("victoria_traces.name", "victoria-traces")
	v.SetDefault("victoria_traces.endpoints", d.VictoriaTraces.Endpoints)
	v.SetDefault("victoria_traces.timeout", d.VictoriaTraces.Timeout)
	v.SetDefault("victoria_traces.username", "")
	v.SetDefault("victoria_traces.password", "")
	v.SetDefault("victoria_traces.tenant_id", "")
	v.SetDefault("victoria_traces.retries", d.VictoriaTraces.Retries)
	v.SetDefault("victoria_traces.backoff_ms", d.VictoriaTraces.BackoffMS)

	v.SetDefault("trends.count_target", d.Trends.CountTarget)
	v.SetDefault("trends.tp99_duration_target", d.Trends.TP99DurationTarget)
	v.SetDefault("trends.failure_target", d.Trends.FailureTarget)

	v.SetDefault("alerts.summary_cache_ttl", d.Alerts.SummaryCacheTTL)
	v.SetDefault("alerts.history_cache_ttl", d.Alerts.HistoryCacheTTL)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.nodes", d.Cache.Nodes)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)

	v.SetDefault("cors.allowed_origins", d.CORS.AllowedOrigins)
	v.SetDefault("cors.allowed_methods", d.CORS.AllowedMethods)
	v.SetDefault("cors.allowed_headers", d.CORS.AllowedHeaders)
	v.SetDefault("cors.exposed_headers", d.CORS.ExposedHeaders)
	v.SetDefault("cors.allow_credentials", d.CORS.AllowCredentials)
	v.SetDefault("cors.max_age", d.CORS.MaxAge)

	v.SetDefault("websocket.enabled", d.WebSocket.Enabled)
	v.SetDefault("websocket.read_buffer_size", d.WebSocket.ReadBufferSize)
	v.SetDefault("websocket.write_buffer_size", d.WebSocket.WriteBufferSize)
	v.SetDefault("websocket.push_interval", d.WebSocket.PushInterval)
	v.SetDefault("websocket.ping_interval", d.WebSocket.PingInterval)

	v.SetDefault("monitoring.enabled", d.Monitoring.Enabled)
	v.SetDefault("monitoring.metrics_path", d.Monitoring.MetricsPath)
	v.SetDefault("monitoring.tracing_enabled", d.Monitoring.TracingEnabled)
	v.SetDefault("monitoring.otlp_endpoint", d.Monitoring.OTLPEndpoint)
}

// overrideWithEnvVars explicitly handles the unprefixed deployment variables
func overrideWithEnvVars(v *viper.Viper) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		v.Set("environment", env)
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	if endpoints := os.Getenv("METRICTANK_ENDPOINTS"); endpoints != "" {
		v.Set("metrictank.endpoints", splitList(endpoints))
	}

	if endpoints := os.Getenv("VT_ENDPOINTS"); endpoints != "" {
		v.Set("victoria_traces.endpoints", splitList(endpoints))
	}

	if cacheNodes := os.Getenv("VALKEY_CACHE_NODES"); cacheNodes != "" {
		v.Set("cache.nodes", splitList(cacheNodes))
	}

	if cacheTTL := os.Getenv("CACHE_TTL"); cacheTTL != "" {
		if ttl, err := strconv.Atoi(cacheTTL); err == nil {
			v.Set("cache.ttl", ttl)
		}
	}

	if otlp := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); otlp != "" {
		v.Set("monitoring.otlp_endpoint", otlp)
		v.Set("monitoring.tracing_enabled", true)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
