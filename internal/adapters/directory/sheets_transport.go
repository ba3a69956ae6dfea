package directory

import (
	"context"
	"sort"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
)

// SheetsTransport talks to the spreadsheet web app directly. The web app only
// returns rows; every list is aggregated here.
type SheetsTransport struct {
	rows RowSource
}

// NewSheetsTransport creates a transport over rows
func NewSheetsTransport(rows RowSource) *SheetsTransport {
	return &SheetsTransport{rows: rows}
}

var _ providers.DirectoryTransport = (*SheetsTransport)(nil)

// Name implements providers.DirectoryTransport
func (t *SheetsTransport) Name() string {
	return "sheets"
}

// ListStates implements providers.DirectoryTransport
func (t *SheetsTransport) ListStates(ctx context.Context) ([]string, error) {
	hospitals, err := t.hospitals(ctx, "")
	if err != nil {
		return nil, err
	}

	states := make([]string, 0, len(hospitals))
	for _, h := range hospitals {
		states = append(states, h.State)
	}
	return utils.SortedUnique(states), nil
}

// ListDistricts implements providers.DirectoryTransport
func (t *SheetsTransport) ListDistricts(ctx context.Context, state string) ([]string, error) {
	hospitals, err := t.hospitals(ctx, state)
	if err != nil {
		return nil, err
	}

	districts := make([]string, 0, len(hospitals))
	for _, h := range hospitals {
		districts = append(districts, h.District)
	}
	return utils.SortedUnique(districts), nil
}

// ListHospitals implements providers.DirectoryTransport
func (t *SheetsTransport) ListHospitals(ctx context.Context, state, district string) ([]string, error) {
	hospitals, err := t.hospitals(ctx, state)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(hospitals))
	for _, h := range hospitals {
		if district != "" && !utils.EqualFold(h.District, district) {
			continue
		}
		names = append(names, h.Name)
	}
	return utils.SortedUnique(names), nil
}

// ListSchemeAudiences implements providers.DirectoryTransport
func (t *SheetsTransport) ListSchemeAudiences(ctx context.Context) ([]string, error) {
	rows, err := t.rows.FetchRows(ctx, RowQuery{Sheet: entities.SheetSchemes})
	if err != nil {
		return nil, err
	}

	audiences := make([]string, 0, len(rows))
	for _, row := range rows {
		audiences = append(audiences, NormalizeAudience(row))
	}
	return sentinelFirst(utils.SortedUnique(audiences)), nil
}

// ListSchemes implements providers.DirectoryTransport
func (t *SheetsTransport) ListSchemes(ctx context.Context, audience string) ([]entities.Scheme, error) {
	rows, err := t.rows.FetchRows(ctx, RowQuery{Sheet: entities.SheetSchemes})
	if err != nil {
		return nil, err
	}

	all := IsSentinelAudience(audience)
	schemes := make([]entities.Scheme, 0, len(rows))
	for _, row := range rows {
		scheme := NormalizeScheme(row)
		if all || IsSentinelAudience(scheme.TargetAudience) || utils.EqualFold(scheme.TargetAudience, audience) {
			schemes = append(schemes, scheme)
		}
	}
	return schemes, nil
}

// SearchFAQs implements providers.DirectoryTransport. Matching is done by the web app.
func (t *SheetsTransport) SearchFAQs(ctx context.Context, query string) ([]entities.FAQ, error) {
	rows, err := t.rows.FetchRows(ctx, RowQuery{Sheet: entities.SheetFAQ, Query: query})
	if err != nil {
		return nil, err
	}

	faqs := make([]entities.FAQ, 0, len(rows))
	for _, row := range rows {
		faqs = append(faqs, NormalizeFAQ(row))
	}
	return faqs, nil
}

// hospitals fetches Hospitals rows for state (all states when empty). Rows
// that name a different state are dropped in case the web app ignores the
// filter.
func (t *SheetsTransport) hospitals(ctx context.Context, state string) ([]entities.Hospital, error) {
	rows, err := t.rows.FetchRows(ctx, RowQuery{Sheet: entities.SheetHospitals, State: state})
	if err != nil {
		return nil, err
	}

	hospitals := make([]entities.Hospital, 0, len(rows))
	for _, row := range rows {
		h := NormalizeHospital(row)
		if state != "" && h.State != "" && !utils.EqualFold(h.State, state) {
			continue
		}
		hospitals = append(hospitals, h)
	}
	return hospitals, nil
}

func sentinelFirst(audiences []string) []string {
	idx := sort.SearchStrings(audiences, entities.SentinelAudience)
	if idx >= len(audiences) || audiences[idx] != entities.SentinelAudience {
		return audiences
	}
	out := make([]string, 0, len(audiences))
	out = append(out, entities.SentinelAudience)
	out = append(out, audiences[:idx]...)
	return append(out, audiences[idx+1:]...)
}
