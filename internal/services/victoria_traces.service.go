package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// VictoriaTracesService lists service operations through the Jaeger
// compatible query API of VictoriaTraces.
type VictoriaTracesService struct {
	*httpBackend
	tenantID string
}

func NewVictoriaTracesService(cfg config.VictoriaTracesConfig, logger logger.Logger) *VictoriaTracesService {
	name := cfg.Name
	if name == "" {
		name = "victoria-traces"
	}
	return &VictoriaTracesService{
		httpBackend: newHTTPBackend(name, cfg.Endpoints, cfg.Timeout, cfg.Username, cfg.Password, cfg.Retries, cfg.BackoffMS, logger),
		tenantID:    cfg.TenantID,
	}
}

type jaegerOperationsResponse struct {
	Data []string `json:"data"`
}

// GetOperations returns all operations for a specific service from VictoriaTraces
func (s *VictoriaTracesService) GetOperations(ctx context.Context, serviceName string) ([]string, error) {
	start := time.Now()
	ops, err := s.getOperations(ctx, serviceName)
	monitoring.RecordBackendQuery("victoria_traces", "operations", time.Since(start), err == nil)
	return ops, err
}

func (s *VictoriaTracesService) getOperations(ctx context.Context, serviceName string) ([]string, error) {
	endpoint := s.selectEndpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("VictoriaTraces: %w", errNoEndpoint)
	}
	fullURL := fmt.Sprintf("%s/select/jaeger/api/services/%s/operations", endpoint, url.PathEscape(serviceName))

	headers := map[string]string{"Accept": "application/json"}
	if s.tenantID != "" {
		headers["AccountID"] = s.tenantID
	}

	resp, err := s.doRequestWithRetry(ctx, fullURL, headers)
	if err != nil {
		return nil, fmt.Errorf("VictoriaTraces request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("VictoriaTraces returned status %d: %s", resp.StatusCode, readBodySnippet(resp.Body))
	}

	var out jaegerOperationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse VictoriaTraces response: %w", err)
	}
	if out.Data == nil {
		out.Data = []string{}
	}

	s.logger.Debug("Operations retrieved successfully",
		"service", serviceName,
		"endpoint", endpoint,
		"operationCount", len(out.Data),
	)
	return out.Data, nil
}

// HealthCheck succeeds if any endpoint answers /health.
func (s *VictoriaTracesService) HealthCheck(ctx context.Context) error {
	return s.probe(ctx, "/health")
}
