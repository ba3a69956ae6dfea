package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
)

// ProxyTransport talks to a local proxy that does the aggregation itself
type ProxyTransport struct {
	baseURL string
	client  *jsonClient
}

// NewProxyTransport creates a transport for the proxy at baseURL
func NewProxyTransport(baseURL string, timeout time.Duration) *ProxyTransport {
	return &ProxyTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newJSONClient(timeout),
	}
}

var (
	_ providers.DirectoryTransport = (*ProxyTransport)(nil)
	_ providers.BookingMirror      = (*ProxyTransport)(nil)
)

// Name implements providers.DirectoryTransport
func (t *ProxyTransport) Name() string {
	return "proxy"
}

// ListStates implements providers.DirectoryTransport
func (t *ProxyTransport) ListStates(ctx context.Context) ([]string, error) {
	return t.strings(ctx, "/api/states", nil)
}

// ListDistricts implements providers.DirectoryTransport
func (t *ProxyTransport) ListDistricts(ctx context.Context, state string) ([]string, error) {
	return t.strings(ctx, "/api/districts", url.Values{"state": {state}})
}

// ListHospitals implements providers.DirectoryTransport
func (t *ProxyTransport) ListHospitals(ctx context.Context, state, district string) ([]string, error) {
	params := url.Values{"state": {state}}
	if district != "" {
		params.Set("district", district)
	}
	return t.strings(ctx, "/api/hospitals", params)
}

// ListSchemeAudiences implements providers.DirectoryTransport
func (t *ProxyTransport) ListSchemeAudiences(ctx context.Context) ([]string, error) {
	return t.strings(ctx, "/api/scheme-states", nil)
}

// ListSchemes implements providers.DirectoryTransport
func (t *ProxyTransport) ListSchemes(ctx context.Context, audience string) ([]entities.Scheme, error) {
	var rows []entities.DirectoryRecord
	if err := t.client.getJSON(ctx, t.endpoint("/api/schemes", url.Values{"state": {audience}}), &rows); err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}

	schemes := make([]entities.Scheme, 0, len(rows))
	for _, row := range rows {
		schemes = append(schemes, NormalizeScheme(row))
	}
	return schemes, nil
}

// SearchFAQs implements providers.DirectoryTransport
func (t *ProxyTransport) SearchFAQs(ctx context.Context, query string) ([]entities.FAQ, error) {
	var rows []entities.DirectoryRecord
	if err := t.client.getJSON(ctx, t.endpoint("/api/faqs", url.Values{"query": {query}}), &rows); err != nil {
		return nil, fmt.Errorf("search faqs: %w", err)
	}

	faqs := make([]entities.FAQ, 0, len(rows))
	for _, row := range rows {
		faqs = append(faqs, NormalizeFAQ(row))
	}
	return faqs, nil
}

// MirrorBooking implements providers.BookingMirror
func (t *ProxyTransport) MirrorBooking(ctx context.Context, booking *entities.Booking) error {
	if err := t.client.postJSON(ctx, t.endpoint("/api/book_appointment", nil), booking); err != nil {
		return fmt.Errorf("mirror booking: %w", err)
	}
	return nil
}

func (t *ProxyTransport) strings(ctx context.Context, path string, params url.Values) ([]string, error) {
	var out []string
	if err := t.client.getJSON(ctx, t.endpoint(path, params), &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func (t *ProxyTransport) endpoint(path string, params url.Values) string {
	if len(params) == 0 {
		return t.baseURL + path
	}
	return t.baseURL + path + "?" + params.Encode()
}
