package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSeries_UnmarshalGraphite(t *testing.T) {
	body := `[{"target":"alertType.totalCount.operationName.op.serviceName.svc.anomaly",
	           "datapoints":[[1,1700000000],[null,1700000060],[0.0,1700000120]]}]`

	var series []RawSeries
	require.NoError(t, json.Unmarshal([]byte(body), &series))
	require.Len(t, series, 1)
	dps := series[0].Datapoints
	require.Len(t, dps, 3)

	assert.True(t, dps[0].Unhealthy())
	assert.Equal(t, int64(1700000000), dps[0].Timestamp)
	assert.Nil(t, dps[1].Value)
	assert.False(t, dps[1].Unhealthy())
	assert.False(t, dps[2].Unhealthy())
}

func TestDatapoint_UnhealthyIsNonZero(t *testing.T) {
	tests := []struct {
		name string
		dp   Datapoint
		want bool
	}{
		{"one", Point(1, 10), true},
		{"zero", Point(0, 10), false},
		{"null", Datapoint{Timestamp: 10}, false},
		{"fractional", Point(0.5, 10), true},
		{"two", Point(2, 10), true},
		{"negative", Point(-1, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.dp.Unhealthy())
		})
	}
}

func TestDatapoint_UnmarshalRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{`[1]`, `[1,2,3]`, `[1,null]`, `"x"`} {
		var d Datapoint
		assert.Error(t, json.Unmarshal([]byte(raw), &d), raw)
	}
}

func TestDatapoint_MarshalPair(t *testing.T) {
	b, err := json.Marshal([]Datapoint{Point(1, 10), {Timestamp: 20}})
	require.NoError(t, err)
	assert.JSONEq(t, `[[1,10],[null,20]]`, string(b))
}

func TestParseAlertType(t *testing.T) {
	for _, at := range AlertTypes {
		got, err := ParseAlertType(string(at))
		require.NoError(t, err)
		assert.Equal(t, at, got)
	}
	_, err := ParseAlertType("latency")
	assert.True(t, errors.Is(err, ErrUnknownAlertType))
}

func TestAlertType_TrendField(t *testing.T) {
	assert.Equal(t, "countPoints", AlertTypeTotalCount.TrendField())
	assert.Equal(t, "tp99DurationPoints", AlertTypeDurationTP99.TrendField())
	assert.Equal(t, "failurePoints", AlertTypeFailureCount.TrendField())
	assert.Equal(t, "", AlertType("other").TrendField())
}

func TestMergedAlert_JSONShape(t *testing.T) {
	m := MergedAlert{
		OperationAlert: OperationAlert{OperationName: "op", Type: AlertTypeTotalCount},
		Trend:          []TrendPoint{},
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"operationName":"op","type":"totalCount","isUnhealthy":false,"timestamp":null,"trend":[]}`, string(b))
}
