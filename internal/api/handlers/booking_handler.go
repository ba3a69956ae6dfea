package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/zatekoja/chikitsamitra/internal/adapters/export"
	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
)

// BookingHandler handles appointment booking endpoints
type BookingHandler struct {
	bookings *services.BookingService
	now      func() time.Time
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings, now: time.Now}
}

type bookingResponse struct {
	Message string            `json:"message"`
	Booking *entities.Booking `json:"booking"`
}

type bookingListResponse struct {
	Bookings []entities.BookingView `json:"bookings"`
	MinDate  string                 `json:"min_date"`
	MaxDate  string                 `json:"max_date"`
}

// Submit handles POST /api/bookings
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form entities.BookingForm
	if err := decodeJSON(r, &form); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	booking, err := h.bookings.Submit(r.Context(), form)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, bookingResponse{Message: services.MsgBookingSuccessful, Booking: booking})
}

// List handles GET /api/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.bookings.List(r.Context(), h.now())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	minDate, maxDate := h.bookings.DateWindow()
	respondWithJSON(w, http.StatusOK, bookingListResponse{Bookings: views, MinDate: minDate, MaxDate: maxDate})
}

// Document handles GET /api/bookings/{reference}/document
func (h *BookingHandler) Document(w http.ResponseWriter, r *http.Request) {
	booking, err := h.bookings.Find(r.Context(), r.PathValue("reference"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	doc, err := export.RenderBooking(booking)
	if err != nil {
		respondWithAppError(w, r, apperrors.NewInternalError("failed to render booking", err))
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
}
