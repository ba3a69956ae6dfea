package storage_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/storage"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	redisclient "github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/redis"
)

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := storage.NewRedisStore(redisclient.Wrap(client))

	_, err := store.Get(ctx, "cm_bookings_v1")
	assert.ErrorIs(t, err, providers.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "cm_bookings_v1", []byte(`[{"id":"bk_1"}]`)))
	got, err := store.Get(ctx, "cm_bookings_v1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"bk_1"}]`, string(got))
	assert.Zero(t, mr.TTL("cm_bookings_v1"))
}
