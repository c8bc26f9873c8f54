package alerts

import (
	"github.com/platformbuilds/mirador-alerts/internal/models"
)

type alertKey struct {
	operation string
	alertType models.AlertType
}

// MergeOperationAlertsAndTrends joins the operation list with parsed alerts and
// trends. The result always holds len(operations)*len(models.AlertTypes)
// records, ordered by operation then by alert type. Pairs with no alert are
// filled as healthy with an unknown timestamp; pairs with no trend get an
// empty trend. When several alerts or trends match, the first one wins.
func MergeOperationAlertsAndTrends(
	operations []string,
	operationAlerts []models.OperationAlert,
	operationTrends []models.OperationTrend,
) []models.MergedAlert {
	alertIndex := make(map[alertKey]int, len(operationAlerts))
	for i, a := range operationAlerts {
		k := alertKey{operation: a.OperationName, alertType: a.Type}
		if _, seen := alertIndex[k]; !seen {
			alertIndex[k] = i
		}
	}
	trendIndex := make(map[string]int, len(operationTrends))
	for i, t := range operationTrends {
		if _, seen := trendIndex[t.OperationName]; !seen {
			trendIndex[t.OperationName] = i
		}
	}

	merged := make([]models.MergedAlert, 0, len(operations)*len(models.AlertTypes))
	for _, operation := range operations {
		for _, alertType := range models.AlertTypes {
			trend := []models.TrendPoint{}
			if i, ok := trendIndex[operation]; ok {
				if pts := operationTrends[i].Points(alertType); pts != nil {
					trend = pts
				}
			}

			if i, ok := alertIndex[alertKey{operation: operation, alertType: alertType}]; ok {
				merged = append(merged, models.MergedAlert{OperationAlert: operationAlerts[i], Trend: trend})
				continue
			}

			merged = append(merged, models.MergedAlert{
				OperationAlert: models.OperationAlert{
					OperationName: operation,
					Type:          alertType,
					IsUnhealthy:   false,
					Timestamp:     nil,
				},
				Trend: trend,
			})
		}
	}
	return merged
}
