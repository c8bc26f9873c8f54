package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// httpBackend is the transport shared by the MetricTank and VictoriaTraces
// clients: round-robin endpoint selection, basic auth, and exponential
// backoff retry on transport errors and 5xx responses.
type httpBackend struct {
	name      string
	endpoints []string
	client    *http.Client
	logger    logger.Logger
	current   int // round-robin cursor

	// guards the cursor and endpoint swaps
	mu sync.Mutex

	username string
	password string

	// retry knobs
	retries   int // total attempts
	backoffMS int // base backoff (ms) for attempt 1; then doubles
}

var errNoEndpoint = errors.New("no endpoint configured")

func newHTTPBackend(name string, endpoints []string, timeoutMS int, username, password string, retries, backoffMS int, log logger.Logger) *httpBackend {
	if retries < 1 {
		retries = 1
	}
	return &httpBackend{
		name:      name,
		endpoints: append([]string(nil), endpoints...),
		client: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		logger:    log,
		retries:   retries,
		backoffMS: backoffMS,
		username:  username,
		password:  password,
	}
}

// ReplaceEndpoints swaps the list used for round-robin
func (b *httpBackend) ReplaceEndpoints(eps []string) {
	b.mu.Lock()
	b.endpoints = append([]string(nil), eps...)
	b.current = 0
	b.mu.Unlock()
	b.logger.Info("Backend endpoints updated", "source", b.name, "count", len(eps))
}

// selectEndpoint implements round-robin load balancing (safe for empty slice).
func (b *httpBackend) selectEndpoint() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.endpoints) == 0 {
		return ""
	}
	ep := b.endpoints[b.current%len(b.endpoints)]
	b.current++
	return ep
}

func (b *httpBackend) snapshotEndpoints() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.endpoints...)
}

// doRequestWithRetry sends a GET and retries on 5xx or transport errors.
// Non-5xx responses are returned as-is for the caller to interpret.
func (b *httpBackend) doRequestWithRetry(ctx context.Context, urlStr string, headers map[string]string) (*http.Response, error) {
	var lastErr error
	backoff := time.Duration(b.backoffMS) * time.Millisecond

	for attempt := 1; attempt <= b.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if b.username != "" {
			req.SetBasicAuth(b.username, b.password)
		}

		resp, err := b.client.Do(req)
		if err != nil {
			lastErr = err
			b.logger.Warn("Backend request failed (transport)",
				"source", b.name, "attempt", attempt, "url", urlStr, "error", err)
		} else if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, readBodySnippet(resp.Body))
			_ = resp.Body.Close()
			b.logger.Warn("Backend 5xx response, retrying",
				"source", b.name, "attempt", attempt, "url", urlStr, "status", resp.StatusCode)
		} else {
			return resp, nil
		}

		if attempt == b.retries || ctx.Err() != nil {
			break
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.logger.Error("Backend request exhausted retries",
		"source", b.name, "url", urlStr, "retries", b.retries, "error", lastErr)
	return nil, lastErr
}

// probe returns nil if any endpoint answers path with a non-5xx status.
func (b *httpBackend) probe(ctx context.Context, path string) error {
	endpoints := b.snapshotEndpoints()
	if len(endpoints) == 0 {
		return errNoEndpoint
	}

	var lastErr error
	for _, ep := range endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep+path, nil)
		if err != nil {
			return err
		}
		if b.username != "" {
			req.SetBasicAuth(b.username, b.password)
		}
		resp, err := b.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode < 500 {
			return nil
		}
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
	}
	return fmt.Errorf("%s: all endpoints unhealthy: %w", b.name, lastErr)
}

// readBodySnippet returns a short text excerpt from an HTTP body for error messages.
func readBodySnippet(r io.Reader) string {
	const max = 8 << 10 // 8KB
	b, _ := io.ReadAll(io.LimitReader(r, max))
	return string(b)
}
