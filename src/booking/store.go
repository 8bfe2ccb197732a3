package booking

import (
	"context"
	"time"

	"evbs/src/models"
	"evbs/src/types"
)

// Tx groups the per-entity stores visible inside one transaction.
type Tx interface {
	Events() EventStore
	Users() UserStore
	Bookings() BookingStore
	Waitlist() WaitlistStore
}

// Store is the persistence boundary of the package. UpdateEvent runs fn in a
// transaction that holds an exclusive lock on the event row, so all seat
// admission checks and counter updates for one event are serialized.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	UpdateEvent(ctx context.Context, eventID uint, fn func(tx Tx) error) error
}

type EventStore interface {
	Get(ctx context.Context, id uint) (*models.Event, error)
	SetAvailableSeats(ctx context.Context, id uint, seats uint) error
	SetStatus(ctx context.Context, id uint, status types.EventStatus) error
}

type UserStore interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

type BookingStore interface {
	Get(ctx context.Context, id uint) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) error
	SetStatus(ctx context.Context, id uint, status types.BookingStatus) error
	ListByUser(ctx context.Context, userID uint) ([]models.Booking, error)
	CancelConfirmedForEvent(ctx context.Context, eventID uint) (int64, error)
}

type WaitlistStore interface {
	Get(ctx context.Context, id uint) (*models.WaitlistEntry, error)
	Create(ctx context.Context, e *models.WaitlistEntry) error
	Delete(ctx context.Context, id uint) error
	HasWaiting(ctx context.Context, eventID, userID uint) (bool, error)
	Waiting(ctx context.Context, eventID uint) ([]models.WaitlistEntry, error)
	CountWaiting(ctx context.Context, eventID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.WaitlistEntry, error)
	MarkNotified(ctx context.Context, eventID uint, at time.Time) (int64, error)
}
