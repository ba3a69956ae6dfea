package providers

import (
	"context"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// DirectoryTransport fetches directory data from the remote source.
// Implementations return errors; callers decide how to degrade.
type DirectoryTransport interface {
	// Name identifies the transport in logs
	Name() string

	// ListStates returns the distinct states across all hospitals, sorted
	ListStates(ctx context.Context) ([]string, error)

	// ListDistricts returns the distinct districts of a state, sorted
	ListDistricts(ctx context.Context, state string) ([]string, error)

	// ListHospitals returns hospital names for a state, optionally narrowed to a district
	ListHospitals(ctx context.Context, state, district string) ([]string, error)

	// ListSchemeAudiences returns scheme audiences with the sentinel first
	ListSchemeAudiences(ctx context.Context) ([]string, error)

	// ListSchemes returns schemes for an audience; empty or sentinel means all
	ListSchemes(ctx context.Context, audience string) ([]entities.Scheme, error)

	// SearchFAQs returns FAQs matching query as filtered by the source
	SearchFAQs(ctx context.Context, query string) ([]entities.FAQ, error)
}

// BookingMirror receives a copy of each stored booking. Delivery is best effort.
type BookingMirror interface {
	MirrorBooking(ctx context.Context, booking *entities.Booking) error
}
