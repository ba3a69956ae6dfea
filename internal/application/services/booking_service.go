package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/domain/repositories"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/chikitsamitra/pkg/errors"
)

// Booking validation messages, checked in this order
const (
	MsgNameRequired      = "Please enter your full name"
	MsgPhoneInvalid      = "Enter valid 10-digit phone"
	MsgPhoneNotVerified  = "Please verify your phone number first"
	MsgLocationRequired  = "Pick state, district and hospital"
	MsgSlotDateRequired  = "Choose slot & date"
	MsgBookingSuccessful = "Appointment booked successfully!"
)

const mirrorTimeout = 10 * time.Second

// BookingService validates, stores and lists appointment bookings
type BookingService struct {
	repo         repositories.BookingRepository
	verification *PhoneVerification
	mirror       providers.BookingMirror
	selector     *SelectorController
	events       providers.EventBus
	metrics      *observability.Metrics
	windowDays   int
	now          func() time.Time
	validate     *validator.Validate
	mirrors      sync.WaitGroup

	// serializes validate, store and verification reset so one verified
	// phone yields one booking
	submitMu sync.Mutex
}

// BookingServiceOption configures a BookingService
type BookingServiceOption func(*BookingService)

// WithBookingMirror forwards each stored booking to mirror
func WithBookingMirror(mirror providers.BookingMirror) BookingServiceOption {
	return func(s *BookingService) { s.mirror = mirror }
}

// WithBookingSelector clears the state/district/hospital selection of ctl
// after each stored booking
func WithBookingSelector(ctl *SelectorController) BookingServiceOption {
	return func(s *BookingService) { s.selector = ctl }
}

// WithBookingEvents publishes bookings.updated on bus
func WithBookingEvents(bus providers.EventBus) BookingServiceOption {
	return func(s *BookingService) { s.events = bus }
}

// WithBookingMetrics records submit outcomes
func WithBookingMetrics(metrics *observability.Metrics) BookingServiceOption {
	return func(s *BookingService) { s.metrics = metrics }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

// NewBookingService creates a new booking service. windowDays bounds how far
// ahead an appointment date may be.
func NewBookingService(repo repositories.BookingRepository, verification *PhoneVerification, windowDays int, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		repo:         repo,
		verification: verification,
		windowDays:   windowDays,
		now:          time.Now,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Verification returns the phone verification machine guarding Submit
func (s *BookingService) Verification() *PhoneVerification {
	return s.verification
}

// DateWindow returns the first and last bookable dates
func (s *BookingService) DateWindow() (string, string) {
	today := startOfDay(s.now())
	return today.Format(entities.BookingDateLayout), today.AddDate(0, 0, s.windowDays).Format(entities.BookingDateLayout)
}

// Submit validates form and stores the booking. The first failing check is
// returned as a validation error and nothing is stored.
func (s *BookingService) Submit(ctx context.Context, form entities.BookingForm) (*entities.Booking, error) {
	ctx, span := observability.StartSpan(ctx, "booking.submit")
	defer span.End()

	form = trimForm(form)

	s.submitMu.Lock()
	booking, err := s.store(ctx, form)
	s.submitMu.Unlock()
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if s.selector != nil {
		if _, err := s.selector.SelectState(ctx, ""); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to reset appointment selector")
		}
	}
	publishEvent(ctx, s.events, entities.NewAssistantEvent(entities.AssistantEventBookingsUpdated, "", booking))
	s.mirrorAsync(ctx, booking)

	return booking, nil
}

// store runs with submitMu held
func (s *BookingService) store(ctx context.Context, form entities.BookingForm) (*entities.Booking, error) {
	if err := s.validateForm(form); err != nil {
		s.count(ctx, "rejected")
		return nil, err
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		s.count(ctx, "failed")
		return nil, apperrors.NewInternalError("failed to save booking", err)
	}

	now := s.now()
	booking := &entities.Booking{
		ID:              "bk_" + uuid.NewString(),
		Reference:       uniqueReference(now, existing),
		Name:            form.Name,
		Phone:           form.Phone,
		DOB:             form.DOB,
		Gender:          form.Gender,
		AppointmentType: form.AppointmentType,
		State:           form.State,
		District:        form.District,
		Hospital:        form.Hospital,
		Department:      form.Department,
		Date:            form.Date,
		Timeslot:        form.Timeslot,
		CreatedAt:       now.UTC(),
	}

	if err := s.repo.Append(ctx, booking); err != nil {
		s.count(ctx, "failed")
		return nil, apperrors.NewInternalError("failed to save booking", err)
	}

	observability.LoggerFromContext(ctx).Info().
		Str("booking_id", booking.ID).
		Str("reference", booking.Reference).
		Str("hospital", booking.Hospital).
		Msg("booking stored")
	s.count(ctx, "stored")

	s.verification.Reset(ctx)
	return booking, nil
}

// List returns all stored bookings in stored order, classified against now
func (s *BookingService) List(ctx context.Context, now time.Time) ([]entities.BookingView, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load bookings", err)
	}

	views := make([]entities.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, entities.BookingView{Booking: *b, Status: b.StatusOn(now)})
	}
	return views, nil
}

// Find returns the booking with the given reference or id. Lists written
// before references were unique may repeat one; the newest booking wins.
func (s *BookingService) Find(ctx context.Context, reference string) (*entities.Booking, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load bookings", err)
	}

	reference = strings.TrimSpace(reference)
	for i := len(bookings) - 1; i >= 0; i-- {
		if b := bookings[i]; b.Reference == reference || b.ID == reference {
			return b, nil
		}
	}
	return nil, apperrors.NewNotFoundError("booking not found")
}

// WaitForMirrors blocks until every mirror request in flight has finished
func (s *BookingService) WaitForMirrors() {
	s.mirrors.Wait()
}

type phoneField struct {
	Phone string `validate:"required,len=10,number"`
}

type scheduleField struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

func (s *BookingService) validateForm(form entities.BookingForm) error {
	if form.Name == "" {
		return apperrors.NewValidationError("name", MsgNameRequired)
	}
	if err := s.validate.Struct(phoneField{Phone: form.Phone}); err != nil {
		return apperrors.NewValidationError("phone", MsgPhoneInvalid)
	}
	if !s.verification.IsVerifiedFor(form.Phone) {
		return apperrors.NewValidationError("phone", MsgPhoneNotVerified)
	}
	if form.State == "" || form.District == "" || form.Hospital == "" {
		return apperrors.NewValidationError("hospital", MsgLocationRequired)
	}
	if form.Timeslot == "" || form.Date == "" {
		return apperrors.NewValidationError("date", MsgSlotDateRequired)
	}
	return s.validateDate(form.Date)
}

func (s *BookingService) validateDate(value string) error {
	msg := fmt.Sprintf("Choose a date within the next %d days", s.windowDays)
	if err := s.validate.Struct(scheduleField{Date: value}); err != nil {
		return apperrors.NewValidationError("date", msg)
	}

	now := s.now()
	date, err := time.ParseInLocation(entities.BookingDateLayout, value, now.Location())
	if err != nil {
		return apperrors.NewValidationError("date", msg)
	}

	first := startOfDay(now)
	last := first.AddDate(0, 0, s.windowDays)
	if date.Before(first) || date.After(last) {
		return apperrors.NewValidationError("date", msg)
	}
	return nil
}

func (s *BookingService) mirrorAsync(ctx context.Context, booking *entities.Booking) {
	if s.mirror == nil {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	mirrorCtx := context.WithoutCancel(ctx)
	copied := *booking

	s.mirrors.Add(1)
	go func() {
		defer s.mirrors.Done()

		ctx, cancel := context.WithTimeout(mirrorCtx, mirrorTimeout)
		defer cancel()

		if err := s.mirror.MirrorBooking(ctx, &copied); err != nil {
			logger.Warn().Err(err).Str("booking_id", copied.ID).Msg("server booking failed")
			return
		}
		logger.Debug().Str("booking_id", copied.ID).Msg("booking also sent to server")
	}()
}

func (s *BookingService) count(ctx context.Context, outcome string) {
	if s.metrics == nil {
		return
	}
	observability.AddCount(ctx, s.metrics.BookingSubmitCount, attribute.String("outcome", outcome))
}

// bookingReference returns CM- followed by the last six digits of ms
func bookingReference(ms int64) string {
	digits := strconv.FormatInt(ms, 10)
	if len(digits) > 6 {
		digits = digits[len(digits)-6:]
	}
	return "CM-" + digits
}

// uniqueReference derives the reference from the millisecond timestamp and
// steps forward one millisecond at a time past references already stored.
// Six digits wrap every 1,000,000 ms, so collisions are expected over time.
func uniqueReference(now time.Time, existing []*entities.Booking) string {
	taken := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		taken[b.Reference] = struct{}{}
	}

	ms := now.UnixMilli()
	for i := 0; i < 1000000; i++ {
		ref := bookingReference(ms + int64(i))
		if _, dup := taken[ref]; !dup {
			return ref
		}
	}
	return bookingReference(ms)
}

func trimForm(f entities.BookingForm) entities.BookingForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Phone = strings.TrimSpace(f.Phone)
	f.DOB = strings.TrimSpace(f.DOB)
	f.Gender = strings.TrimSpace(f.Gender)
	f.AppointmentType = strings.TrimSpace(f.AppointmentType)
	f.State = strings.TrimSpace(f.State)
	f.District = strings.TrimSpace(f.District)
	f.Hospital = strings.TrimSpace(f.Hospital)
	f.Department = strings.TrimSpace(f.Department)
	f.Date = strings.TrimSpace(f.Date)
	f.Timeslot = strings.TrimSpace(f.Timeslot)
	return f
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
