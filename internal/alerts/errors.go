package alerts

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks entry points that are reserved but not yet backed by
// a real computation.
var ErrNotImplemented = errors.New("not implemented")

// MalformedSeriesError reports a series target that lacks a required tag.
type MalformedSeriesError struct {
	Target string
	Tag    string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("malformed series target %q: missing %s tag", e.Target, e.Tag)
}
