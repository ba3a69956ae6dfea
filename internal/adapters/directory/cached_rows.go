package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
)

// CachedRowSource keeps raw row sets in a cache for a fixed TTL. Cache
// failures fall through to the wrapped source.
type CachedRowSource struct {
	next       RowSource
	cache      providers.CacheProvider
	ttlSeconds int
	metrics    *observability.Metrics
}

// NewCachedRowSource wraps next with a cache
func NewCachedRowSource(next RowSource, cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics) *CachedRowSource {
	return &CachedRowSource{
		next:       next,
		cache:      cache,
		ttlSeconds: ttlSeconds,
		metrics:    metrics,
	}
}

// RowCacheKey returns the cache key of q
func RowCacheKey(q RowQuery) string {
	return fmt.Sprintf("directory:rows:%s:%s:%s", q.Sheet, utils.FoldText(q.State), utils.FoldText(q.Query))
}

// FetchRows implements RowSource
func (c *CachedRowSource) FetchRows(ctx context.Context, q RowQuery) ([]entities.DirectoryRecord, error) {
	key := RowCacheKey(q)
	logger := observability.LoggerFromContext(ctx)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var rows []entities.DirectoryRecord
		if jsonErr := json.Unmarshal(cached, &rows); jsonErr == nil {
			if c.metrics != nil {
				observability.AddCount(ctx, c.metrics.RowCacheHitCount)
			}
			return rows, nil
		}
		logger.Warn().Str("key", key).Msg("discarding undecodable cached rows")
	case !errors.Is(err, providers.ErrCacheMiss):
		logger.Warn().Err(err).Str("key", key).Msg("row cache read failed")
	}
	if c.metrics != nil {
		observability.AddCount(ctx, c.metrics.RowCacheMissCount)
	}

	rows, err := c.next.FetchRows(ctx, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rows); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttlSeconds); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("row cache write failed")
		}
	}
	return rows, nil
}
