package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// SelectorHandler drives the cascading selectors of each page section
type SelectorHandler struct {
	controllers map[string]*services.SelectorController
}

// NewSelectorHandler creates a handler over the given controllers, keyed by group name
func NewSelectorHandler(controllers ...*services.SelectorController) *SelectorHandler {
	h := &SelectorHandler{controllers: make(map[string]*services.SelectorController, len(controllers))}
	for _, c := range controllers {
		h.controllers[c.Name()] = c
	}
	return h
}

// Get handles GET /api/selectors/{group}. The state list is loaded on first
// access, or again when refresh=true.
func (h *SelectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}

	snap := ctl.Snapshot()
	if snap.State.Phase == entities.SelectorPhaseEmpty || r.URL.Query().Get("refresh") == "true" {
		snap = ctl.Mount(r.Context())
	}
	respondWithJSON(w, http.StatusOK, snap)
}

// SelectState handles POST /api/selectors/{group}/state
func (h *SelectorHandler) SelectState(w http.ResponseWriter, r *http.Request) {
	h.selectLevel(w, r, (*services.SelectorController).SelectState)
}

// SelectDistrict handles POST /api/selectors/{group}/district
func (h *SelectorHandler) SelectDistrict(w http.ResponseWriter, r *http.Request) {
	h.selectLevel(w, r, (*services.SelectorController).SelectDistrict)
}

// SelectHospital handles POST /api/selectors/{group}/hospital
func (h *SelectorHandler) SelectHospital(w http.ResponseWriter, r *http.Request) {
	h.selectLevel(w, r, (*services.SelectorController).SelectHospital)
}

type selectFunc func(*services.SelectorController, context.Context, string) (entities.SelectorGroup, error)

func (h *SelectorHandler) selectLevel(w http.ResponseWriter, r *http.Request, sel selectFunc) {
	ctl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req valueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	snap, err := sel(ctl, r.Context(), req.Value)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, snap)
}

func (h *SelectorHandler) controller(w http.ResponseWriter, r *http.Request) (*services.SelectorController, bool) {
	group := r.PathValue("group")
	ctl, ok := h.controllers[group]
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown selector group")
		return nil, false
	}
	return ctl, true
}
