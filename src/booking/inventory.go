package booking

import (
	"evbs/src/models"
	"evbs/src/types"
)

// MaxSeatsPerBooking caps how many seats one booking may take.
const MaxSeatsPerBooking = 5

// Inventory owns the seat counter rules for a single event. It mutates the
// in-memory event only; callers persist the new counter through EventStore
// while holding the event lock.
type Inventory struct{}

func (Inventory) Reserve(event *models.Event, seats uint) error {
	if seats < 1 || seats > MaxSeatsPerBooking {
		return ErrInvalidSeatCount
	}
	if event.Status != types.EVENT_PUBLISHED {
		return ErrEventNotBookable
	}
	if event.AvailableSeats < seats {
		return ErrInsufficientSeats
	}
	event.AvailableSeats -= seats
	return nil
}

func (Inventory) Release(event *models.Event, seats uint) error {
	next := event.AvailableSeats + seats
	if next > event.TotalSeats {
		return &InvariantError{EventID: event.ID, Available: int(next), Total: event.TotalSeats}
	}
	event.AvailableSeats = next
	return nil
}
