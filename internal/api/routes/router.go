package routes

import (
	"net/http"

	"github.com/zatekoja/chikitsamitra/internal/api/handlers"
	"github.com/zatekoja/chikitsamitra/internal/api/middleware"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health       *handlers.HealthHandler
	Chat         *handlers.ChatHandler
	Directory    *handlers.DirectoryHandler
	Selector     *handlers.SelectorHandler
	Verification *handlers.VerificationHandler
	Booking      *handlers.BookingHandler
	Contact      *handlers.ContactHandler
	SSE          *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux             *http.ServeMux
	handlers        Handlers
	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(h Handlers, cacheMiddleware *middleware.CacheMiddleware, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		handlers:        h,
		cacheMiddleware: cacheMiddleware,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	h := r.handlers

	r.mux.HandleFunc("GET /health", h.Health.Health)

	// Chat
	r.mux.HandleFunc("GET /api/chat/greeting", h.Chat.Greeting)
	r.mux.HandleFunc("POST /api/chat", h.Chat.Reply)

	// Directory, same surface as the proxy transport consumes
	r.mux.Handle("GET /api/states", r.cached(h.Directory.States))
	r.mux.Handle("GET /api/districts", r.cached(h.Directory.Districts))
	r.mux.Handle("GET /api/hospitals", r.cached(h.Directory.Hospitals))
	r.mux.Handle("GET /api/scheme-states", r.cached(h.Directory.SchemeAudiences))
	r.mux.Handle("GET /api/schemes", r.cached(h.Directory.Schemes))
	r.mux.Handle("GET /api/faqs", r.cached(h.Directory.FAQs))

	// Selectors
	r.mux.HandleFunc("GET /api/selectors/{group}", h.Selector.Get)
	r.mux.HandleFunc("POST /api/selectors/{group}/state", h.Selector.SelectState)
	r.mux.HandleFunc("POST /api/selectors/{group}/district", h.Selector.SelectDistrict)
	r.mux.HandleFunc("POST /api/selectors/{group}/hospital", h.Selector.SelectHospital)

	// Phone verification
	r.mux.HandleFunc("GET /api/verification", h.Verification.State)
	r.mux.HandleFunc("POST /api/verification/send", h.Verification.SendCode)
	r.mux.HandleFunc("POST /api/verification/verify", h.Verification.Verify)
	r.mux.HandleFunc("POST /api/verification/phone", h.Verification.PhoneChanged)

	// Bookings
	r.mux.HandleFunc("POST /api/bookings", h.Booking.Submit)
	r.mux.HandleFunc("GET /api/bookings", h.Booking.List)
	r.mux.HandleFunc("GET /api/bookings/{reference}/document", h.Booking.Document)

	r.mux.HandleFunc("POST /api/contact", h.Contact.Submit)

	r.mux.HandleFunc("GET /api/events", h.SSE.StreamEvents)

	var handler http.Handler = r.mux
	handler = middleware.NoStore("/api/bookings", "/api/verification", "/api/events")(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORS(r.allowedOrigins)(handler)
	handler = middleware.Compression(handler)

	return handler
}

func (r *Router) cached(fn http.HandlerFunc) http.Handler {
	if r.cacheMiddleware == nil {
		return fn
	}
	return r.cacheMiddleware.Middleware(fn)
}
