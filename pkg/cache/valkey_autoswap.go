package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// autoSwapCache wraps a ValkeyCluster implementation and can swap from a
// fallback (in-memory noop) to a real Valkey client once it becomes
// available. All calls delegate to the currently active implementation.
type autoSwapCache struct {
	mu      sync.RWMutex
	current ValkeyCluster
	logger  logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
}

// newAutoSwapCache creates an auto-swapping cache that starts with `fallback`
// and keeps trying `dialReal` every interval until it succeeds, then swaps.
func newAutoSwapCache(
	fallback ValkeyCluster,
	logger logger.Logger,
	interval time.Duration,
	dialReal func() (ValkeyCluster, error),
) *autoSwapCache {
	a := &autoSwapCache{
		current: fallback,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				real, err := dialReal()
				if err != nil {
					a.logger.Warn("Valkey connection attempt failed; will retry", "error", err)
					continue
				}
				a.mu.Lock()
				a.current = real
				a.mu.Unlock()
				stopCache(fallback)
				a.logger.Info("Valkey connection established; switched from in-memory to real cache")
				return // stop after first successful swap
			}
		}
	}()

	return a
}

// Stop stops the background connector and any sweep of the active cache.
func (a *autoSwapCache) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		stopCache(a.active())
	})
}

// stopCache ends background work of caches that have any.
func stopCache(c ValkeyCluster) {
	if s, ok := c.(interface{ Stop() }); ok {
		s.Stop()
	}
}

func (a *autoSwapCache) active() ValkeyCluster {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *autoSwapCache) Get(ctx context.Context, key string) ([]byte, error) {
	return a.active().Get(ctx, key)
}

func (a *autoSwapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return a.active().Set(ctx, key, value, ttl)
}

func (a *autoSwapCache) Delete(ctx context.Context, key string) error {
	return a.active().Delete(ctx, key)
}

func (a *autoSwapCache) HealthCheck(ctx context.Context) error {
	return a.active().HealthCheck(ctx)
}

const autoSwapInterval = 5 * time.Second

// NewAutoSwapForSingle creates an auto-swapping cache that upgrades from
// in-memory to a single-node Valkey client when reachable.
func NewAutoSwapForSingle(addr string, db int, password string, ttl time.Duration, log logger.Logger, fallback ValkeyCluster) ValkeyCluster {
	return newAutoSwapCache(fallback, log, autoSwapInterval, func() (ValkeyCluster, error) {
		return NewValkeySingle(addr, db, password, ttl, log)
	})
}

// NewAutoSwapForCluster creates an auto-swapping cache that upgrades from
// in-memory to a Valkey cluster client when reachable.
func NewAutoSwapForCluster(nodes []string, password string, ttl time.Duration, log logger.Logger, fallback ValkeyCluster) ValkeyCluster {
	return newAutoSwapCache(fallback, log, autoSwapInterval, func() (ValkeyCluster, error) {
		return NewValkeyCluster(nodes, password, ttl, log)
	})
}

// Options selects and configures the cache backend built by New.
type Options struct {
	Enabled  bool
	Nodes    []string
	DB       int
	Password string
	TTL      time.Duration
}

// New picks the backend: pass-through when disabled, in-memory without
// nodes, single-node for one node,
// cluster otherwise. An unreachable Valkey starts on the in-memory fallback
// and swaps over once a connection succeeds.
func New(opts Options, log logger.Logger) ValkeyCluster {
	if !opts.Enabled {
		return NewDisabledCache(log)
	}
	if len(opts.Nodes) == 0 {
		return NewNoopValkeyCache(opts.TTL, log)
	}

	if len(opts.Nodes) == 1 {
		c, err := NewValkeySingle(opts.Nodes[0], opts.DB, opts.Password, opts.TTL, log)
		if err == nil {
			return c
		}
		log.Warn("Valkey single-node unavailable at startup", "error", err)
		return NewAutoSwapForSingle(opts.Nodes[0], opts.DB, opts.Password, opts.TTL, log, NewNoopValkeyCache(opts.TTL, log))
	}

	c, err := NewValkeyCluster(opts.Nodes, opts.Password, opts.TTL, log)
	if err == nil {
		return c
	}
	log.Warn("Valkey cluster unavailable at startup", "error", err)
	return NewAutoSwapForCluster(opts.Nodes, opts.Password, opts.TTL, log, NewNoopValkeyCache(opts.TTL, log))
}
