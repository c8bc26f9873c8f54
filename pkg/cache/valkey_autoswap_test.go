package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platformbuilds/mirador-alerts/pkg/logger"
)

func TestAutoSwap_SwapsAfterDialSucceeds(t *testing.T) {
	log := logger.NewNop()
	fallback := NewNoopValkeyCache(time.Minute, log)
	real := NewNoopValkeyCache(time.Minute, log)
	require.NoError(t, real.Set(context.Background(), "k", "from-real", 0))

	var attempts atomic.Int32
	a := newAutoSwapCache(fallback, log, 10*time.Millisecond, func() (ValkeyCluster, error) {
		if attempts.Add(1) < 3 {
			return nil, errors.New("connection refused")
		}
		return real, nil
	})
	defer a.Stop()

	_, err := a.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.Eventually(t, func() bool {
		b, err := a.Get(context.Background(), "k")
		return err == nil && string(b) == "from-real"
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, attempts.Load(), int32(3))
}

func TestAutoSwap_StopIsIdempotent(t *testing.T) {
	log := logger.NewNop()
	a := newAutoSwapCache(NewNoopValkeyCache(time.Minute, log), log, time.Hour, func() (ValkeyCluster, error) {
		return nil, errors.New("never")
	})
	a.Stop()
	a.Stop()
	assert.ErrorIs(t, a.HealthCheck(context.Background()), ErrNoopCache)
}

func TestNew_DisabledIsPassThroughAndHealthy(t *testing.T) {
	ctx := context.Background()
	c := New(Options{Enabled: false, Nodes: []string{"localhost:6379"}, TTL: time.Minute}, logger.NewNop())
	_, ok := c.(disabledCache)
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.HealthCheck(ctx))
}

func TestNew_EnabledWithoutNodesUsesInMemory(t *testing.T) {
	c := New(Options{Enabled: true, TTL: time.Minute}, logger.NewNop())
	n, ok := c.(*noopValkeyCache)
	require.True(t, ok)
	n.Stop()
}

func TestAutoSwap_StopsFallbackSweepOnSwap(t *testing.T) {
	log := logger.NewNop()
	fallback := newNoopValkeyCache(time.Minute, log, time.Hour, time.Now)
	a := newAutoSwapCache(fallback, log, 10*time.Millisecond, func() (ValkeyCluster, error) {
		return NewDisabledCache(log), nil
	})
	defer a.Stop()

	require.Eventually(t, func() bool {
		select {
		case <-fallback.stopCh:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, a.HealthCheck(context.Background()))
}
