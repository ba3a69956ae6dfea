package storage

import (
	"context"
	"fmt"

	"github.com/zatekoja/chikitsamitra/internal/adapters/database"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/postgres"
	redisclient "github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/redis"
	"github.com/zatekoja/chikitsamitra/pkg/config"
)

// Dependencies carries the shared clients a backend may reuse
type Dependencies struct {
	Redis *redisclient.Client
}

// NewKeyValueStore builds the store selected by STORAGE_BACKEND. The returned
// close function releases connections the store opened itself.
func NewKeyValueStore(ctx context.Context, cfg *config.Config, deps Dependencies) (providers.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.StorageFile:
		return NewFileStore(cfg.Storage.FilePath), noop, nil

	case config.StorageRedis:
		if deps.Redis != nil {
			return NewRedisStore(deps.Redis), noop, nil
		}
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStore(client), client.Close, nil

	case config.StoragePostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		adapter := database.NewKVStoreAdapter(client)
		if err := adapter.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return adapter, client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
