package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/cache"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	redisclient "github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/redis"
)

func newAdapter(t *testing.T) (*cache.RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisAdapter(redisclient.Wrap(client)), mr
}

func TestRedisAdapter_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newAdapter(t)

	_, err := adapter.Get(ctx, "missing")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 0))
	got, err := adapter.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, adapter.Delete(ctx, "k"))
	_, err = adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_Expiry(t *testing.T) {
	ctx := context.Background()
	adapter, mr := newAdapter(t)

	require.NoError(t, adapter.Set(ctx, "k", []byte("v"), 60))
	mr.FastForward(61 * time.Second)

	_, err := adapter.Get(ctx, "k")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestRedisAdapter_ServerDown(t *testing.T) {
	adapter, mr := newAdapter(t)
	mr.Close()

	_, err := adapter.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, providers.ErrCacheMiss)
}
