package directory_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/directory"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

func newProxyServer(t *testing.T) (*httptest.Server, chan []byte) {
	t.Helper()
	mirrored := make(chan []byte, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/states", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"Goa", "Kerala"})
	})
	mux.HandleFunc("GET /api/districts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"district of " + r.URL.Query().Get("state")})
	})
	mux.HandleFunc("GET /api/hospitals", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		json.NewEncoder(w).Encode([]string{q.Get("state") + "/" + q.Get("district")})
	})
	mux.HandleFunc("GET /api/scheme-states", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]string{"All India", "Goa"})
	})
	mux.HandleFunc("GET /api/schemes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"state": r.URL.Query().Get("state"), "Scheme Name": "Goa Mediclaim"}})
	})
	mux.HandleFunc("GET /api/faqs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]string{{"Question": r.URL.Query().Get("query"), "Answer": "yes"}})
	})
	mux.HandleFunc("POST /api/book_appointment", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mirrored <- body
		w.WriteHeader(http.StatusCreated)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, mirrored
}

func TestProxyTransport_Lists(t *testing.T) {
	server, _ := newProxyServer(t)
	transport := directory.NewProxyTransport(server.URL+"/", time.Second)
	ctx := context.Background()

	states, err := transport.ListStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa", "Kerala"}, states)

	districts, err := transport.ListDistricts(ctx, "Tamil Nadu")
	require.NoError(t, err)
	assert.Equal(t, []string{"district of Tamil Nadu"}, districts)

	hospitals, err := transport.ListHospitals(ctx, "Goa", "North Goa")
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa/North Goa"}, hospitals)

	allForState, err := transport.ListHospitals(ctx, "Goa", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Goa/"}, allForState)

	audiences, err := transport.ListSchemeAudiences(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"All India", "Goa"}, audiences)

	schemes, err := transport.ListSchemes(ctx, "Goa")
	require.NoError(t, err)
	assert.Equal(t, []entities.Scheme{{TargetAudience: "Goa", Title: "Goa Mediclaim"}}, schemes)

	faqs, err := transport.SearchFAQs(ctx, "fever & chills")
	require.NoError(t, err)
	assert.Equal(t, []entities.FAQ{{Question: "fever & chills", Answer: "yes"}}, faqs)
}

func TestProxyTransport_MirrorBooking(t *testing.T) {
	server, mirrored := newProxyServer(t)
	transport := directory.NewProxyTransport(server.URL, time.Second)

	booking := &entities.Booking{ID: "bk_1", Reference: "CM-123456", Name: "Asha", Timeslot: "10:00"}
	require.NoError(t, transport.MirrorBooking(context.Background(), booking))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(<-mirrored, &body))
	assert.Equal(t, "CM-123456", body["reference"])
	assert.Equal(t, "10:00", body["timeslot"])
}

func TestProxyTransport_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	transport := directory.NewProxyTransport(server.URL, time.Second)
	_, err := transport.ListStates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	err = transport.MirrorBooking(context.Background(), &entities.Booking{ID: "bk_1"})
	assert.Error(t, err)
}
