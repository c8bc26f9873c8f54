package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/platformbuilds/mirador-alerts/internal/alerts"
	"github.com/platformbuilds/mirador-alerts/internal/config"
	"github.com/platformbuilds/mirador-alerts/internal/models"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// Rollup intervals published by the trend pipeline.
const (
	IntervalOneMinute     = "OneMinute"
	IntervalFiveMinute    = "FiveMinute"
	IntervalFifteenMinute = "FifteenMinute"
	IntervalOneHour       = "OneHour"
)

// IntervalForGranularity maps a granularity in milliseconds to the coarsest
// rollup that does not exceed it. Zero or smaller than a minute is OneMinute.
func IntervalForGranularity(granularityMS int64) string {
	switch {
	case granularityMS >= 60*60*1000:
		return IntervalOneHour
	case granularityMS >= 15*60*1000:
		return IntervalFifteenMinute
	case granularityMS >= 5*60*1000:
		return IntervalFiveMinute
	default:
		return IntervalOneMinute
	}
}

// TrendsService derives per-operation trend series from MetricTank.
type TrendsService struct {
	renderer SeriesRenderer
	targets  config.TrendsConfig
	logger   logger.Logger
}

func NewTrendsService(renderer SeriesRenderer, targets config.TrendsConfig, logger logger.Logger) *TrendsService {
	return &TrendsService{renderer: renderer, targets: targets, logger: logger}
}

type trendQuery struct {
	template string
	assign   func(*models.OperationTrend, []models.TrendPoint)
}

// GetOperationStats fetches count, p99 duration and failure trends of every
// operation of a service. from and until are milliseconds; zero leaves the
// render default. Operations are returned in first-seen order.
func (s *TrendsService) GetOperationStats(ctx context.Context, serviceName string, granularity, from, until int64) ([]models.OperationTrend, error) {
	queries := []trendQuery{
		{s.targets.CountTarget, func(t *models.OperationTrend, p []models.TrendPoint) { t.CountPoints = p }},
		{s.targets.TP99DurationTarget, func(t *models.OperationTrend, p []models.TrendPoint) { t.TP99DurationPoints = p }},
		{s.targets.FailureTarget, func(t *models.OperationTrend, p []models.TrendPoint) { t.FailurePoints = p }},
	}

	interval := IntervalForGranularity(granularity)
	replacer := strings.NewReplacer("${service}", serviceName, "${interval}", interval)
	req := RenderRequest{From: from / 1000, Until: until / 1000}

	results := make([][]models.RawSeries, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		r := req
		r.Target = replacer.Replace(q.template)
		g.Go(func() error {
			series, err := s.renderer.Render(gctx, r)
			if err != nil {
				return fmt.Errorf("trend query %q: %w", r.Target, err)
			}
			results[i] = series
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byName := make(map[string]*models.OperationTrend)
	order := make([]string, 0)
	// tracks which (operation, query) pairs are already filled; first series wins
	filled := make(map[string][]bool)

	for qi, seriesList := range results {
		for _, rs := range seriesList {
			tags, err := alerts.DecodeTags(rs.Target, "operationName")
			if err != nil {
				s.logger.Warn("Skipping trend series with malformed target", "target", rs.Target, "error", err)
				continue
			}
			name := alerts.DecodeOperationName(tags["operationName"])

			trend, ok := byName[name]
			if !ok {
				trend = &models.OperationTrend{
					OperationName:      name,
					CountPoints:        []models.TrendPoint{},
					TP99DurationPoints: []models.TrendPoint{},
					FailurePoints:      []models.TrendPoint{},
				}
				byName[name] = trend
				filled[name] = make([]bool, len(queries))
				order = append(order, name)
			}
			if filled[name][qi] {
				continue
			}
			filled[name][qi] = true
			queries[qi].assign(trend, toTrendPoints(rs.Datapoints))
		}
	}

	out := make([]models.OperationTrend, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out, nil
}

func toTrendPoints(points []models.Datapoint) []models.TrendPoint {
	out := make([]models.TrendPoint, 0, len(points))
	for _, p := range points {
		out = append(out, models.TrendPoint{
			Value:     p.Value,
			Timestamp: p.Timestamp * models.MicrosPerSecond,
		})
	}
	return out
}
