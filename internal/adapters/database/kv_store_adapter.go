package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/clients/postgres"
)

const kvTable = "assistant_kv"

// KVStoreAdapter implements providers.KeyValueStore on a Postgres table
type KVStoreAdapter struct {
	db *sql.DB
	qb *goqu.Database
}

// NewKVStoreAdapter creates a new key-value adapter
func NewKVStoreAdapter(client *postgres.Client) *KVStoreAdapter {
	return NewKVStoreAdapterFromDB(client.DB())
}

// NewKVStoreAdapterFromDB creates a key-value adapter over an open pool
func NewKVStoreAdapterFromDB(db *sql.DB) *KVStoreAdapter {
	return &KVStoreAdapter{
		db: db,
		qb: goqu.New("postgres", db),
	}
}

var _ providers.KeyValueStore = (*KVStoreAdapter)(nil)

// EnsureSchema creates the backing table when missing
func (a *KVStoreAdapter) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, kvTable)
	if _, err := a.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create %s: %w", kvTable, err)
	}
	return nil
}

// Get returns the value stored under key
func (a *KVStoreAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := a.qb.From(kvTable).
		Select("value").
		Where(goqu.C("key").Eq(key)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build kv select query: %w", err)
	}

	var value string
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, providers.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts value under key
func (a *KVStoreAdapter) Set(ctx context.Context, key string, value []byte) error {
	record := goqu.Record{
		"key":        key,
		"value":      string(value),
		"updated_at": time.Now().UTC(),
	}

	query, args, err := a.qb.Insert(kvTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"updated_at": goqu.L("EXCLUDED.updated_at"),
		})).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build kv upsert query: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
