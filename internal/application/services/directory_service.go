package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// MinFAQQueryLength is the shortest FAQ query the surfaces forward
const MinFAQQueryLength = 2

// DirectoryService is the boundary between the UI and the remote directory.
// Every query returns a list; failures are logged and become empty lists.
type DirectoryService struct {
	transport providers.DirectoryTransport
	metrics   *observability.Metrics
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(transport providers.DirectoryTransport, metrics *observability.Metrics) *DirectoryService {
	return &DirectoryService{
		transport: transport,
		metrics:   metrics,
	}
}

// TransportName returns the name of the configured transport
func (s *DirectoryService) TransportName() string {
	return s.transport.Name()
}

// ListStates returns all states with at least one hospital
func (s *DirectoryService) ListStates(ctx context.Context) []string {
	return degrade(ctx, s, "list_states", func() ([]string, error) {
		return s.transport.ListStates(ctx)
	})
}

// ListDistricts returns the districts of state
func (s *DirectoryService) ListDistricts(ctx context.Context, state string) []string {
	state = strings.TrimSpace(state)
	if state == "" {
		return []string{}
	}
	return degrade(ctx, s, "list_districts", func() ([]string, error) {
		return s.transport.ListDistricts(ctx, state)
	})
}

// ListHospitals returns hospitals in state, narrowed to district when given
func (s *DirectoryService) ListHospitals(ctx context.Context, state, district string) []string {
	state = strings.TrimSpace(state)
	if state == "" {
		return []string{}
	}
	return degrade(ctx, s, "list_hospitals", func() ([]string, error) {
		return s.transport.ListHospitals(ctx, state, strings.TrimSpace(district))
	})
}

// ListSchemeAudiences returns the scheme audiences, "All India" first
func (s *DirectoryService) ListSchemeAudiences(ctx context.Context) []string {
	return degrade(ctx, s, "list_scheme_audiences", func() ([]string, error) {
		return s.transport.ListSchemeAudiences(ctx)
	})
}

// ListSchemes returns the schemes offered to audience
func (s *DirectoryService) ListSchemes(ctx context.Context, audience string) []entities.Scheme {
	return degrade(ctx, s, "list_schemes", func() ([]entities.Scheme, error) {
		return s.transport.ListSchemes(ctx, strings.TrimSpace(audience))
	})
}

// SearchFAQs returns the FAQs matching query. A blank query never reaches the network.
func (s *DirectoryService) SearchFAQs(ctx context.Context, query string) []entities.FAQ {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entities.FAQ{}
	}
	return degrade(ctx, s, "search_faqs", func() ([]entities.FAQ, error) {
		return s.transport.SearchFAQs(ctx, query)
	})
}

func degrade[T any](ctx context.Context, s *DirectoryService, op string, fetch func() ([]T, error)) []T {
	ctx, span := observability.StartSpan(ctx, "directory."+op)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("operation", op),
		attribute.String("transport", s.transport.Name()),
	}
	if s.metrics != nil {
		observability.AddCount(ctx, s.metrics.DirectoryFetches, attrs...)
	}

	items, err := fetch()
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("operation", op).
			Str("transport", s.transport.Name()).
			Msg("directory query failed, returning empty list")
		if s.metrics != nil {
			observability.AddCount(ctx, s.metrics.DirectoryDegraded, attrs...)
		}
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
