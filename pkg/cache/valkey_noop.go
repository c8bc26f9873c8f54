package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alerts/internal/monitoring"
	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// ErrNoopCache is what HealthCheck reports for the in-memory fallback.
var ErrNoopCache = errors.New("valkey unavailable: using in-memory cache")

type noopEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

// noopSweepInterval is how often expired fallback entries are reclaimed.
const noopSweepInterval = time.Minute

func (e noopEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// noopValkeyCache provides an in-memory, process-local fallback that satisfies
// ValkeyCluster when the external cache is unavailable. Data is not shared
// across replicas and is lost on restart. Expired entries are dropped on read
// and by a background sweep until Stop is called.
type noopValkeyCache struct {
	m      map[string]noopEntry
	mu     sync.RWMutex
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewNoopValkeyCache(defaultTTL time.Duration, log logger.Logger) ValkeyCluster {
	log.Warn("Valkey cache unavailable; using in-memory fallback (noop)")
	return newNoopValkeyCache(defaultTTL, log, noopSweepInterval, time.Now)
}

func newNoopValkeyCache(defaultTTL time.Duration, log logger.Logger, sweepEvery time.Duration, now func() time.Time) *noopValkeyCache {
	n := &noopValkeyCache{
		m:      make(map[string]noopEntry),
		ttl:    defaultTTL,
		now:    now,
		logger: log,
		stopCh: make(chan struct{}),
	}
	go n.sweepLoop(sweepEvery)
	return n
}

func (n *noopValkeyCache) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-n.stopCh:
			return
		case <-ticker.C:
			if removed := n.sweep(); removed > 0 {
				n.logger.Debug("In-memory cache swept", "removed", removed)
			}
		}
	}
}

// sweep deletes every expired entry and returns how many went.
func (n *noopValkeyCache) sweep() int {
	now := n.now()
	n.mu.Lock()
	defer n.mu.Unlock()
	removed := 0
	for k, e := range n.m {
		if e.expired(now) {
			delete(n.m, k)
			removed++
		}
	}
	return removed
}

// Stop ends the background sweep.
func (n *noopValkeyCache) Stop() { n.stopOnce.Do(func() { close(n.stopCh) }) }

func (n *noopValkeyCache) size() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.m)
}

func (n *noopValkeyCache) Get(ctx context.Context, key string) ([]byte, error) {
	now := n.now()
	n.mu.RLock()
	e, ok := n.m[key]
	n.mu.RUnlock()
	if ok && e.expired(now) {
		n.mu.Lock()
		// a concurrent Set may have refreshed it
		if cur, still := n.m[key]; still && cur.expired(now) {
			delete(n.m, key)
		}
		n.mu.Unlock()
		ok = false
	}
	if !ok {
		monitoring.RecordCacheOperation("get", "miss")
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	monitoring.RecordCacheOperation("get", "hit")
	return e.data, nil
}

func (n *noopValkeyCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encodeValue(value)
	if err != nil {
		monitoring.RecordCacheOperation("set", "error")
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = n.ttl
	}
	e := noopEntry{data: b}
	if ttl > 0 {
		e.expiresAt = n.now().Add(ttl)
	}
	n.mu.Lock()
	n.m[key] = e
	n.mu.Unlock()
	monitoring.RecordCacheOperation("set", "success")
	return nil
}

func (n *noopValkeyCache) Delete(ctx context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	n.mu.Unlock()
	monitoring.RecordCacheOperation("delete", "success")
	return nil
}

// HealthCheck always reports degraded so readiness surfaces the fallback.
func (n *noopValkeyCache) HealthCheck(ctx context.Context) error {
	return ErrNoopCache
}
