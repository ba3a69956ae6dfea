package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// DirectoryRoutes are the read-only directory endpoints safe to cache
var DirectoryRoutes = []string{
	"/api/states",
	"/api/districts",
	"/api/hospitals",
	"/api/scheme-states",
	"/api/schemes",
	"/api/faqs",
}

// CacheMiddleware caches successful GET responses of selected routes
type CacheMiddleware struct {
	cache      providers.CacheProvider
	routes     map[string]struct{}
	ttlSeconds int
}

// NewCacheMiddleware caches routes for ttlSeconds. A nil cache or a
// non-positive TTL disables caching.
func NewCacheMiddleware(cache providers.CacheProvider, ttlSeconds int, routes ...string) *CacheMiddleware {
	set := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		set[route] = struct{}{}
	}
	return &CacheMiddleware{cache: cache, routes: set, ttlSeconds: ttlSeconds}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled(r) {
			next.ServeHTTP(w, r)
			return
		}

		logger := observability.LoggerFromContext(r.Context())
		key := cacheKey(r)

		if cached, err := m.cache.Get(r.Context(), key); err == nil {
			logger.Debug().Str("key", key).Msg("http cache hit")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		// empty lists are usually a degraded fetch
		body := bytes.TrimSpace(recorder.body.Bytes())
		if recorder.statusCode != http.StatusOK || len(body) == 0 || bytes.Equal(body, []byte("[]")) {
			return
		}
		if err := m.cache.Set(r.Context(), key, recorder.body.Bytes(), m.ttlSeconds); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("failed to cache response")
		}
	})
}

func (m *CacheMiddleware) enabled(r *http.Request) bool {
	if m.cache == nil || m.ttlSeconds <= 0 || r.Method != http.MethodGet {
		return false
	}
	_, ok := m.routes[strings.TrimRight(r.URL.Path, "/")]
	return ok
}

func cacheKey(r *http.Request) string {
	key := r.Method + ":" + r.URL.Path
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.Query().Encode()
	}
	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder copies the response body while writing it through
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
	written    bool
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
