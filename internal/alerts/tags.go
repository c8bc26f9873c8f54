// Package alerts turns raw anomaly series into operation health summaries and
// unhealthy-window histories. Everything here is a pure transformation over
// already fetched inputs.
package alerts

import (
	"slices"
	"strings"
)

const (
	// nameSentinel replaces literal dots in operation names so they survive
	// dot-delimited targets. It is not escaped: names already containing it
	// do not round-trip.
	nameSentinel = "___"

	tagAlertType     = "alertType"
	tagOperationName = "operationName"
	tagServiceName   = "serviceName"

	targetSuffix = "anomaly"
	wildcard     = "*"
)

// EncodeOperationName makes an operation name safe for a dot-delimited target.
func EncodeOperationName(name string) string {
	return strings.ReplaceAll(name, ".", nameSentinel)
}

// DecodeOperationName reverses EncodeOperationName.
func DecodeOperationName(encoded string) string {
	return strings.ReplaceAll(encoded, nameSentinel, ".")
}

// DecodeTags reads positional key/value tags out of a target such as
// "alertType.failureCount.operationName.get___user.serviceName.svc.anomaly".
// For each key the first token equal to it is located and the following token
// is returned as its value, still encoded. A missing key, or a key with no
// following token, yields a *MalformedSeriesError.
func DecodeTags(target string, keys ...string) (map[string]string, error) {
	tokens := strings.Split(target, ".")
	tags := make(map[string]string, len(keys))
	for _, key := range keys {
		idx := slices.Index(tokens, key)
		if idx < 0 || idx+1 >= len(tokens) {
			return nil, &MalformedSeriesError{Target: target, Tag: key}
		}
		tags[key] = tokens[idx+1]
	}
	return tags, nil
}

// AlertTarget builds the render target of a single anomaly series. A "*"
// operation or alert type is passed through as a wildcard.
func AlertTarget(alertType, operationName, serviceName string) string {
	op := operationName
	if op != wildcard {
		op = EncodeOperationName(op)
	}
	return strings.Join([]string{
		tagAlertType, alertType,
		tagOperationName, op,
		tagServiceName, serviceName,
		targetSuffix,
	}, ".")
}

// ServiceAlertsTarget matches every alert type of every operation of a service.
func ServiceAlertsTarget(serviceName string) string {
	return AlertTarget(wildcard, wildcard, serviceName)
}
