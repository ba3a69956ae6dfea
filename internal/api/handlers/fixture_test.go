package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/events"
	"github.com/zatekoja/chikitsamitra/internal/adapters/storage"
	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/knowledge"
)

var fixtureNow = time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)

// stubDirectory serves fixed directory data and records FAQ queries
type stubDirectory struct {
	mu         sync.Mutex
	faqQueries []string
}

func (d *stubDirectory) ListStates(ctx context.Context) []string {
	return []string{"Kerala", "Tamil Nadu"}
}

func (d *stubDirectory) ListDistricts(ctx context.Context, state string) []string {
	if state == "Kerala" {
		return []string{"Ernakulam"}
	}
	return []string{}
}

func (d *stubDirectory) ListHospitals(ctx context.Context, state, district string) []string {
	if state == "Kerala" && district == "Ernakulam" {
		return []string{"General Hospital"}
	}
	return []string{}
}

func (d *stubDirectory) ListSchemeAudiences(ctx context.Context) []string {
	return []string{entities.SentinelAudience, "Kerala"}
}

func (d *stubDirectory) ListSchemes(ctx context.Context, audience string) []entities.Scheme {
	return []entities.Scheme{{TargetAudience: entities.SentinelAudience, Title: "PM-JAY", Description: "Cover"}}
}

func (d *stubDirectory) SearchFAQs(ctx context.Context, query string) []entities.FAQ {
	d.mu.Lock()
	d.faqQueries = append(d.faqQueries, query)
	d.mu.Unlock()
	return []entities.FAQ{{Question: "What is " + query + "?", Answer: "An answer"}}
}

type fixture struct {
	directory    *stubDirectory
	bus          *events.MemoryEventBus
	verification *services.PhoneVerification
	bookings     *services.BookingService
	chat         *services.ChatService
	appointment  *services.SelectorController
	finder       *services.SelectorController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	table, err := knowledge.Default()
	require.NoError(t, err)

	bus := events.NewMemoryEventBus()
	t.Cleanup(func() { _ = bus.Close() })

	dir := &stubDirectory{}
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	verification := services.NewPhoneVerification(func() (string, error) { return "123456", nil }, bus)
	appointment := services.NewSelectorController(services.SelectorGroupAppointment, services.AppointmentSelectorLayout, dir, bus)

	return &fixture{
		directory:    dir,
		bus:          bus,
		verification: verification,
		bookings: services.NewBookingService(
			storage.NewBookingAdapter(store, "cm_bookings_v1"),
			verification,
			30,
			services.WithClock(func() time.Time { return fixtureNow }),
			services.WithBookingEvents(bus),
			services.WithBookingSelector(appointment),
		),
		chat:        services.NewChatService(services.NewResponseResolver(table), nil, nil, nil),
		appointment: appointment,
		finder:      services.NewSelectorController(services.SelectorGroupFinder, services.FinderSelectorLayout, dir, bus),
	}
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(dst))
}
