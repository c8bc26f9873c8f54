package alerts

import (
	"sort"

	"github.com/platformbuilds/mirador-alerts/internal/models"
)

// ParseOperationAlerts derives the current health of every series returned by
// a wildcard alert query, one record per series.
//
// A series whose target lacks the operationName or alertType tag fails the
// whole batch; partial results are never returned.
func ParseOperationAlerts(series []models.RawSeries) ([]models.OperationAlert, error) {
	parsed := make([]models.OperationAlert, 0, len(series))
	for _, s := range series {
		alert, err := parseOperationAlert(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, alert)
	}
	return parsed, nil
}

func parseOperationAlert(s models.RawSeries) (models.OperationAlert, error) {
	tags, err := DecodeTags(s.Target, tagOperationName, tagAlertType)
	if err != nil {
		return models.OperationAlert{}, err
	}

	alert := models.OperationAlert{
		OperationName: DecodeOperationName(tags[tagOperationName]),
		Type:          models.AlertType(DecodeOperationName(tags[tagAlertType])),
	}

	points := sortedDesc(s.Datapoints)
	if len(points) == 0 {
		return alert, nil
	}

	latest := points[0]
	alert.IsUnhealthy = latest.Unhealthy()
	if alert.IsUnhealthy {
		alert.Timestamp = micros(latest.Timestamp)
		return alert, nil
	}

	// Healthy now: report when it was last unhealthy, if ever.
	for _, p := range points {
		if p.Unhealthy() {
			alert.Timestamp = micros(p.Timestamp)
			break
		}
	}
	return alert, nil
}

// sortedDesc returns a copy of points ordered latest first. Equal timestamps
// keep their input order.
func sortedDesc(points []models.Datapoint) []models.Datapoint {
	out := append([]models.Datapoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

func sortedAsc(points []models.Datapoint) []models.Datapoint {
	out := append([]models.Datapoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

func micros(seconds int64) *int64 {
	v := seconds * models.MicrosPerSecond
	return &v
}
