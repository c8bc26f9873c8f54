package services

import (
	"context"
	"sync"

	"github.com/platformbuilds/mirador-alerts/internal/models"
)

type fakeRenderer struct {
	mu       sync.Mutex
	requests []RenderRequest
	byTarget map[string][]models.RawSeries
	err      error
}

func (f *fakeRenderer) Render(ctx context.Context, req RenderRequest) ([]models.RawSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.byTarget[req.Target], nil
}

func (f *fakeRenderer) targets() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Target)
	}
	return out
}

type fakeLister struct {
	ops   []string
	err   error
	gate  chan struct{} // when set, GetOperations blocks until closed
	mu    sync.Mutex
	calls int
}

func (f *fakeLister) GetOperations(ctx context.Context, serviceName string) ([]string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	return f.ops, f.err
}

type fakeTrends struct {
	trends []models.OperationTrend
	err    error
}

func (f *fakeTrends) GetOperationStats(ctx context.Context, serviceName string, granularity, from, until int64) ([]models.OperationTrend, error) {
	return f.trends, f.err
}

func dp(v float64, ts int64) models.Datapoint { return models.Point(v, ts) }
