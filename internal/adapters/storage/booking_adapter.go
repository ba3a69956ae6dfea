package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/domain/repositories"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// BookingAdapter stores the booking list as one JSON array under a single key.
// Appends are read-modify-write and serialized within the process.
type BookingAdapter struct {
	store providers.KeyValueStore
	key   string
	mu    sync.Mutex
}

// NewBookingAdapter creates a booking repository over store
func NewBookingAdapter(store providers.KeyValueStore, key string) *BookingAdapter {
	return &BookingAdapter{store: store, key: key}
}

var _ repositories.BookingRepository = (*BookingAdapter)(nil)

// Append implements repositories.BookingRepository
func (a *BookingAdapter) Append(ctx context.Context, booking *entities.Booking) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	bookings, err := a.read(ctx)
	if err != nil {
		return err
	}
	bookings = append(bookings, booking)

	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to encode bookings: %w", err)
	}
	if err := a.store.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("failed to store bookings: %w", err)
	}
	return nil
}

// List implements repositories.BookingRepository
func (a *BookingAdapter) List(ctx context.Context) ([]*entities.Booking, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.read(ctx)
}

// read loads the stored list. A missing or undecodable value is an empty
// list; a store failure is an error.
func (a *BookingAdapter) read(ctx context.Context) ([]*entities.Booking, error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return []*entities.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	var bookings []*entities.Booking
	if err := json.Unmarshal(data, &bookings); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("key", a.key).
			Msg("stored bookings are corrupt, treating as empty")
		return []*entities.Booking{}, nil
	}
	out := make([]*entities.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b != nil {
			out = append(out, b)
		}
	}
	return out, nil
}
