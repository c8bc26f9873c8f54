package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// RenderRequest is one Graphite render call. From and Until are epoch
// seconds; zero leaves the backend default window.
type RenderRequest struct {
	Target string
	From   int64
	Until  int64
}

// MetricTankService talks to a Graphite compatible /render API.
type MetricTankService struct {
	*httpBackend
	orgID string
}

func NewMetricTankService(cfg config.MetricTankConfig, logger logger.Logger) *MetricTankService {
	name := cfg.Name
	if name == "" {
		name = "metrictank"
	}
	return &MetricTankService{
		httpBackend: newHTTPBackend(name, cfg.Endpoints, cfg.Timeout, cfg.Username, cfg.Password, cfg.Retries, cfg.BackoffMS, logger),
		orgID:       cfg.OrgID,
	}
}

// Render fetches the series matching req.Target.
func (s *MetricTankService) Render(ctx context.Context, req RenderRequest) ([]models.RawSeries, error) {
	start := time.Now()
	series, err := s.render(ctx, req)
	monitoring.RecordBackendQuery("metrictank", "render", time.Since(start), err == nil)
	return series, err
}

func (s *MetricTankService) render(ctx context.Context, req RenderRequest) ([]models.RawSeries, error) {
	endpoint := s.selectEndpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("MetricTank: %w", errNoEndpoint)
	}

	params := url.Values{}
	params.Set("target", req.Target)
	params.Set("format", "json")
	if req.From > 0 {
		params.Set("from", strconv.FormatInt(req.From, 10))
	}
	if req.Until > 0 {
		params.Set("until", strconv.FormatInt(req.Until, 10))
	}

	headers := map[string]string{"Accept": "application/json"}
	if s.orgID != "" {
		headers["X-Org-Id"] = s.orgID
	}

	resp, err := s.doRequestWithRetry(ctx, endpoint+"/render?"+params.Encode(), headers)
	if err != nil {
		return nil, fmt.Errorf("MetricTank request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MetricTank returned status %d: %s", resp.StatusCode, readBodySnippet(resp.Body))
	}

	var series []models.RawSeries
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		return nil, fmt.Errorf("failed to parse MetricTank response: %w", err)
	}

	s.logger.Debug("Render query executed",
		"target", req.Target,
		"source", s.name,
		"endpoint", endpoint,
		"seriesCount", len(series),
	)
	return series, nil
}

// HealthCheck succeeds if any endpoint answers.
func (s *MetricTankService) HealthCheck(ctx context.Context) error {
	return s.probe(ctx, "/")
}
