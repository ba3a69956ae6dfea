package repositories

import (
	"context"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

// BookingRepository defines the interface for booking persistence.
// Bookings are append-only.
type BookingRepository interface {
	// Append adds a booking to the end of the stored list
	Append(ctx context.Context, booking *entities.Booking) error

	// List returns all stored bookings in insertion order
	List(ctx context.Context) ([]*entities.Booking, error)
}
