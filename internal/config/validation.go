package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidateEndpoint validates that an endpoint is properly formatted
func ValidateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https scheme")
	}

	if parsed.Host == "" {
		return fmt.Errorf("endpoint must include host")
	}

	return nil
}

// validateTrendTarget checks a trend template carries the placeholders the
// trend source substitutes.
func validateTrendTarget(name, tmpl string) error {
	for _, ph := range []string{"${service}", "${interval}"} {
		if !strings.Contains(tmpl, ph) {
			return fmt.Errorf("trends.%s must contain %s", name, ph)
		}
	}
	if !strings.Contains(tmpl, ".operationName.*.") {
		return fmt.Errorf("trends.%s must wildcard the operationName tag", name)
	}
	return nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if len(config.MetricTank.Endpoints) == 0 {
		return fmt.Errorf("at least one MetricTank endpoint is required")
	}
	for _, ep := range config.MetricTank.Endpoints {
		if err := ValidateEndpoint(ep); err != nil {
			return fmt.Errorf("metrictank endpoint %q: %w", ep, err)
		}
	}

	if len(config.VictoriaTraces.Endpoints) == 0 {
		return fmt.Errorf("at least one VictoriaTraces endpoint is required")
	}
	for _, ep := range config.VictoriaTraces.Endpoints {
		if err := ValidateEndpoint(ep); err != nil {
			return fmt.Errorf("victoria_traces endpoint %q: %w", ep, err)
		}
	}

	if config.MetricTank.Retries < 1 || config.VictoriaTraces.Retries < 1 {
		return fmt.Errorf("retries must be at least 1")
	}

	if err := validateTrendTarget("count_target", config.Trends.CountTarget); err != nil {
		return err
	}
	if err := validateTrendTarget("tp99_duration_target", config.Trends.TP99DurationTarget); err != nil {
		return err
	}
	if err := validateTrendTarget("failure_target", config.Trends.FailureTarget); err != nil {
		return err
	}

	if config.Cache.Enabled && len(config.Cache.Nodes) == 0 {
		return fmt.Errorf("at least one Valkey cache node is required when cache is enabled")
	}

	if config.Cache.TTL < 1 {
		return fmt.Errorf("cache TTL must be at least 1 second")
	}

	if config.Alerts.SummaryCacheTTL < 0 || config.Alerts.HistoryCacheTTL < 0 {
		return fmt.Errorf("alert cache TTLs must not be negative")
	}

	if config.WebSocket.Enabled && config.WebSocket.PushInterval < 1 {
		return fmt.Errorf("websocket push interval must be at least 1 second")
	}

	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validEnvironments := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvironments, config.Environment) {
		return fmt.Errorf("invalid environment: %s", config.Environment)
	}

	return nil
}
