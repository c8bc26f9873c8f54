package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

func TestNoopValkey_BasicOps(t *testing.T) {
	cch := NewNoopValkeyCache(time.Minute, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, cch.Set(ctx, "k1", "v1", time.Second))
	b, err := cch.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(b))

	require.NoError(t, cch.Set(ctx, "k2", map[string]int{"a": 1}, 0))
	b, err = cch.Get(ctx, "k2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b))

	require.NoError(t, cch.Delete(ctx, "k1"))
	_, err = cch.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.ErrorIs(t, cch.HealthCheck(ctx), ErrNoopCache)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestNoopValkey_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cch := newNoopValkeyCache(10*time.Second, logger.NewNop(), time.Hour, clock.Now)
	defer cch.Stop()
	ctx := context.Background()

	require.NoError(t, cch.Set(ctx, "explicit", "x", 2*time.Second))
	require.NoError(t, cch.Set(ctx, "default", "y", 0))

	clock.Advance(2 * time.Second)
	_, err := cch.Get(ctx, "explicit")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = cch.Get(ctx, "default")
	assert.NoError(t, err)

	clock.Advance(8 * time.Second)
	_, err = cch.Get(ctx, "default")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNoopValkey_ExpiredEntriesAreReclaimed(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cch := newNoopValkeyCache(time.Minute, logger.NewNop(), time.Hour, clock.Now)
	defer cch.Stop()
	ctx := context.Background()

	// sliding-window summary keys: each request is a new key
	for i := 0; i < 1000; i++ {
		require.NoError(t, cch.Set(ctx, fmt.Sprintf("service_alerts:svc:0:%d:%d", i, i+3600000), "[]", time.Second))
	}
	require.NoError(t, cch.Set(ctx, "long-lived", "x", time.Hour*2))
	require.Equal(t, 1001, cch.size())

	clock.Advance(time.Hour)

	// reading an expired key drops it
	_, err := cch.Get(ctx, "service_alerts:svc:0:0:3600000")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 1000, cch.size())

	assert.Equal(t, 999, cch.sweep())
	assert.Equal(t, 1, cch.size())
	_, err = cch.Get(ctx, "long-lived")
	assert.NoError(t, err)
}

func TestNoopValkey_BackgroundSweep(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	cch := newNoopValkeyCache(time.Minute, logger.NewNop(), 10*time.Millisecond, clock.Now)
	defer cch.Stop()

	for i := 0; i < 100; i++ {
		require.NoError(t, cch.Set(context.Background(), fmt.Sprintf("k%d", i), i, time.Second))
	}
	clock.Advance(2 * time.Second)

	assert.Eventually(t, func() bool { return cch.size() == 0 }, 2*time.Second, 10*time.Millisecond)

	cch.Stop()
	cch.Stop()
}

func TestNoopValkey_UnencodableValue(t *testing.T) {
	cch := NewNoopValkeyCache(time.Minute, logger.NewNop())
	assert.Error(t, cch.Set(context.Background(), "k", make(chan int), 0))
}
