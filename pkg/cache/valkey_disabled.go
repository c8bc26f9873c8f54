package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

// disabledCache is used when caching is switched off in config: every Get
// misses, writes are dropped, and it always reports healthy.
type disabledCache struct{}

func NewDisabledCache(log logger.Logger) ValkeyCluster {
	log.Info("Response caching disabled by configuration")
	return disabledCache{}
}

func (disabledCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
}

func (disabledCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (disabledCache) Delete(ctx context.Context, key string) error { return nil }

func (disabledCache) HealthCheck(ctx context.Context) error { return nil }
