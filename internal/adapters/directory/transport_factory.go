package directory

import (
	"fmt"

	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	"github.com/zatekoja/chikitsamitra/pkg/config"
)

// Transport bundles the configured transport with its optional booking mirror
type Transport struct {
	Directory providers.DirectoryTransport
	Mirror    providers.BookingMirror
}

// NewTransport builds the transport selected in cfg. cache may be nil; it is
// used only by the sheets transport when a TTL is configured.
func NewTransport(cfg *config.DirectoryConfig, cache providers.CacheProvider, metrics *observability.Metrics) (*Transport, error) {
	switch cfg.Transport {
	case config.TransportProxy:
		proxy := NewProxyTransport(cfg.ProxyBaseURL, cfg.Timeout)
		return &Transport{Directory: proxy, Mirror: proxy}, nil

	case config.TransportSheets:
		var rows RowSource = NewSheetsRowSource(cfg.SheetsExecURL, cfg.APIKey, cfg.Timeout)
		if cache != nil && cfg.CacheTTL > 0 {
			rows = NewCachedRowSource(rows, cache, cfg.CacheTTL, metrics)
		}
		return &Transport{Directory: NewSheetsTransport(rows)}, nil

	default:
		return nil, fmt.Errorf("unknown directory transport %q", cfg.Transport)
	}
}
