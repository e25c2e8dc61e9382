//go:build integration

package relyingparty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdcaccount/pkg/testutil/containers"
)

func TestCacheWithRedis(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	source := &countingSource{}

	cache, err := New(source, WithRedis(rc.Client), WithTTL(time.Minute))
	require.NoError(t, err)

	first, err := cache.Get(ctx, "rp-1")
	require.NoError(t, err)
	second, err := cache.Get(ctx, "rp-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)

	// A different client id misses and goes back to the source.
	_, err = cache.Get(ctx, "rp-2")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	source := &countingSource{}

	cache, err := New(source, WithRedis(rc.Client), WithTTL(time.Second))
	require.NoError(t, err)

	_, err = cache.Get(ctx, "rp-1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := cache.Get(ctx, "rp-1")
		return err == nil && source.calls == 2
	}, 5*time.Second, 200*time.Millisecond)
}
