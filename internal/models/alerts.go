// ================================
// internal/models/alerts.go - Operation alert and trend models
// ================================

package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MicrosPerSecond scales backend timestamps (seconds) to API timestamps (microseconds).
const MicrosPerSecond int64 = 1000 * 1000

// AlertType is one of the monitored signal categories for an operation.
type AlertType string

const (
	AlertTypeTotalCount   AlertType = "totalCount"
	AlertTypeDurationTP99 AlertType = "durationTp99"
	AlertTypeFailureCount AlertType = "failureCount"
)

// AlertTypes is the fixed, ordered enumeration used when building summaries.
// Summary output order depends on it.
var AlertTypes = []AlertType{
	AlertTypeTotalCount,
	AlertTypeDurationTP99,
	AlertTypeFailureCount,
}

var ErrUnknownAlertType = errors.New("unknown alert type")

// ParseAlertType validates s against the enumeration.
func ParseAlertType(s string) (AlertType, error) {
	for _, t := range AlertTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlertType, s)
}

// TrendField returns the trend series name attached to this alert type.
func (t AlertType) TrendField() string {
	switch t {
	case AlertTypeTotalCount:
		return "countPoints"
	case AlertTypeDurationTP99:
		return "tp99DurationPoints"
	case AlertTypeFailureCount:
		return "failurePoints"
	}
	return ""
}

// Datapoint is a single Graphite style sample. On the wire it is the pair
// [value, timestampSeconds] and value may be null.
type Datapoint struct {
	Value     *float64
	Timestamp int64
}

// Point builds a Datapoint from a plain value.
func Point(value float64, ts int64) Datapoint {
	return Datapoint{Value: &value, Timestamp: ts}
}

// Unhealthy reports whether the anomaly flag is set: present and non-zero.
// The anomaly detector writes 0 or 1; any other non-zero value also counts
// as unhealthy, matching how history windows read the same series.
func (d Datapoint) Unhealthy() bool {
	return d.Value != nil && *d.Value != 0
}

func (d Datapoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{d.Value, d.Timestamp})
}

func (d *Datapoint) UnmarshalJSON(b []byte) error {
	var pair []*float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("datapoint: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("datapoint: expected [value, timestamp], got %d elements", len(pair))
	}
	if pair[1] == nil {
		return errors.New("datapoint: null timestamp")
	}
	d.Value = pair[0]
	d.Timestamp = int64(*pair[1])
	return nil
}

// RawSeries is one series returned by the render API.
type RawSeries struct {
	Target     string      `json:"target"`
	Datapoints []Datapoint `json:"datapoints"`
}

// OperationAlert is the current health of one (operation, alert type) pair.
// Timestamp is in microseconds; nil when unknown.
type OperationAlert struct {
	OperationName string    `json:"operationName"`
	Type          AlertType `json:"type"`
	IsUnhealthy   bool      `json:"isUnhealthy"`
	Timestamp     *int64    `json:"timestamp"`
}

// TrendPoint is a raw metric value (not a health flag); Timestamp in microseconds.
type TrendPoint struct {
	Value     *float64 `json:"value"`
	Timestamp int64    `json:"timestamp"`
}

// OperationTrend carries the trend series of one operation.
type OperationTrend struct {
	OperationName      string       `json:"operationName"`
	CountPoints        []TrendPoint `json:"countPoints"`
	TP99DurationPoints []TrendPoint `json:"tp99DurationPoints"`
	FailurePoints      []TrendPoint `json:"failurePoints"`
}

// Points selects the trend series matching the alert type.
func (t *OperationTrend) Points(alertType AlertType) []TrendPoint {
	switch alertType.TrendField() {
	case "countPoints":
		return t.CountPoints
	case "tp99DurationPoints":
		return t.TP99DurationPoints
	case "failurePoints":
		return t.FailurePoints
	}
	return nil
}

// MergedAlert is an OperationAlert with its trend attached. Trend is never nil.
type MergedAlert struct {
	OperationAlert
	Trend []TrendPoint `json:"trend"`
}

// UnhealthyWindow is one closed unhealthy interval, microseconds.
type UnhealthyWindow struct {
	StartTimestamp int64 `json:"startTimestamp"`
	EndTimestamp   int64 `json:"endTimestamp"`
}

// ServiceAlertsQuery bounds the trend window of a summary request.
// All fields are milliseconds; zero means "backend default".
type ServiceAlertsQuery struct {
	Granularity int64 `form:"granularity" json:"granularity"`
	From        int64 `form:"from" json:"from"`
	Until       int64 `form:"until" json:"until"`
}
