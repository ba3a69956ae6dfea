package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// HealthHandler reports process and dependency health
type HealthHandler struct {
	transport string
	checks    map[string]HealthCheck
}

// NewHealthHandler creates a health handler. transport names the active
// directory transport; checks are probed on every request.
func NewHealthHandler(transport string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{transport: transport, checks: checks}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Transport string            `json:"transport"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Transport: h.transport}
	status := http.StatusOK
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	respondWithJSON(w, status, resp)
}
