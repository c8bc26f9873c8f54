package alerts

import (
	"github.com/platformbuilds/mirador-alerts/internal/models"
)

// ParseAlertDetailResponse extracts the unhealthy windows of the first series
// of a single-series alert query. Empty input yields an empty slice.
func ParseAlertDetailResponse(series []models.RawSeries) []models.UnhealthyWindow {
	if len(series) == 0 {
		return []models.UnhealthyWindow{}
	}
	return ExtractUnhealthyWindows(series[0].Datapoints)
}

// ExtractUnhealthyWindows walks the points in ascending time order and emits
// one window per run of two or more unhealthy points that a healthy point
// closes. The window starts at the last healthy point seen before the run (the
// first point when the series opens unhealthy) and ends at the run's
// penultimate point. Single-point blips and runs still open at the end of the
// series produce nothing.
func ExtractUnhealthyWindows(points []models.Datapoint) []models.UnhealthyWindow {
	windows := []models.UnhealthyWindow{}
	sorted := sortedAsc(points)
	if len(sorted) == 0 {
		return windows
	}

	lastHealthy := sorted[0].Timestamp
	for i, p := range sorted {
		if p.Unhealthy() {
			continue
		}
		if i >= 2 && sorted[i-1].Unhealthy() && sorted[i-2].Unhealthy() {
			windows = append(windows, models.UnhealthyWindow{
				StartTimestamp: lastHealthy * models.MicrosPerSecond,
				EndTimestamp:   sorted[i-2].Timestamp * models.MicrosPerSecond,
			})
		}
		lastHealthy = p.Timestamp
	}
	return windows
}
