package alerts

// UnhealthyAlertCount is the reserved count of currently unhealthy alerts of a
// service. No backend query feeds it yet, so it always reports
// ErrNotImplemented rather than a misleading zero.
func UnhealthyAlertCount(serviceName string) (int, error) {
	return 0, ErrNotImplemented
}
