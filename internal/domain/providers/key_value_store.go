package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when nothing is stored under key
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the local persisted string store the assistant keeps its
// state in. Values are opaque bytes; there is no expiry.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
