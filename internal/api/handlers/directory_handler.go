package handlers

import (
	"context"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// DirectoryReader is the directory surface served over HTTP. Every method
// degrades to an empty list.
type DirectoryReader interface {
	ListStates(ctx context.Context) []string
	ListDistricts(ctx context.Context, state string) []string
	ListHospitals(ctx context.Context, state, district string) []string
	ListSchemeAudiences(ctx context.Context) []string
	ListSchemes(ctx context.Context, audience string) []entities.Scheme
	SearchFAQs(ctx context.Context, query string) []entities.FAQ
}

// DirectoryHandler exposes the hospital, scheme and FAQ directory in the
// same shape the proxy transport consumes
type DirectoryHandler struct {
	directory DirectoryReader
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(directory DirectoryReader) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// States handles GET /api/states
func (h *DirectoryHandler) States(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.directory.ListStates(r.Context()))
}

// Districts handles GET /api/districts?state=
func (h *DirectoryHandler) Districts(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	respondWithJSON(w, http.StatusOK, h.directory.ListDistricts(r.Context(), state))
}

// Hospitals handles GET /api/hospitals?state=&district=
func (h *DirectoryHandler) Hospitals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	respondWithJSON(w, http.StatusOK, h.directory.ListHospitals(r.Context(), query.Get("state"), query.Get("district")))
}

// SchemeAudiences handles GET /api/scheme-states
func (h *DirectoryHandler) SchemeAudiences(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.directory.ListSchemeAudiences(r.Context()))
}

// Schemes handles GET /api/schemes?state=
func (h *DirectoryHandler) Schemes(w http.ResponseWriter, r *http.Request) {
	audience := r.URL.Query().Get("state")
	respondWithJSON(w, http.StatusOK, h.directory.ListSchemes(r.Context(), audience))
}

// FAQs handles GET /api/faqs?query=
func (h *DirectoryHandler) FAQs(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if utf8.RuneCountInString(query) < services.MinFAQQueryLength {
		respondWithJSON(w, http.StatusOK, []entities.FAQ{})
		return
	}
	respondWithJSON(w, http.StatusOK, h.directory.SearchFAQs(r.Context(), query))
}
