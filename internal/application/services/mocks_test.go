package services_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// Mocks

type MockDirectoryTransport struct {
	mock.Mock
}

func (m *MockDirectoryTransport) Name() string { return "mock" }

func (m *MockDirectoryTransport) ListStates(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsArg(args.Get(0)), args.Error(1)
}

func (m *MockDirectoryTransport) ListDistricts(ctx context.Context, state string) ([]string, error) {
	args := m.Called(ctx, state)
	return stringsArg(args.Get(0)), args.Error(1)
}

func (m *MockDirectoryTransport) ListHospitals(ctx context.Context, state, district string) ([]string, error) {
	args := m.Called(ctx, state, district)
	return stringsArg(args.Get(0)), args.Error(1)
}

func (m *MockDirectoryTransport) ListSchemeAudiences(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsArg(args.Get(0)), args.Error(1)
}

func (m *MockDirectoryTransport) ListSchemes(ctx context.Context, audience string) ([]entities.Scheme, error) {
	args := m.Called(ctx, audience)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Scheme), args.Error(1)
}

func (m *MockDirectoryTransport) SearchFAQs(ctx context.Context, query string) ([]entities.FAQ, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.FAQ), args.Error(1)
}

func stringsArg(v interface{}) []string {
	if v == nil {
		return nil
	}
	return v.([]string)
}

type MockBookingMirror struct {
	mock.Mock
}

func (m *MockBookingMirror) MirrorBooking(ctx context.Context, booking *entities.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

type MockSpeaker struct {
	mock.Mock
}

func (m *MockSpeaker) Available() bool { return true }

func (m *MockSpeaker) Speak(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Available() bool { return true }

func (m *MockTranscriber) Transcribe(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// memoryBookings is an in-memory BookingRepository
type memoryBookings struct {
	mu       sync.Mutex
	bookings []*entities.Booking
	err      error
}

func (r *memoryBookings) Append(ctx context.Context, booking *entities.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.bookings = append(r.bookings, booking)
	return nil
}

func (r *memoryBookings) List(ctx context.Context) ([]*entities.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]*entities.Booking(nil), r.bookings...), nil
}

// recordingBus captures published events
type recordingBus struct {
	mu     sync.Mutex
	events []*entities.AssistantEvent
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.AssistantEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AssistantEvent, error) {
	return nil, nil
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) types() []entities.AssistantEventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]entities.AssistantEventType, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}
