package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	redisclient "github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/redis"
)

// RedisStore keeps values in Redis strings without expiry
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a new Redis-backed store
func NewRedisStore(client *redisclient.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ providers.KeyValueStore = (*RedisStore)(nil)

// Get implements providers.KeyValueStore
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set implements providers.KeyValueStore
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Client().Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
