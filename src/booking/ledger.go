package booking

import (
	"context"
	"time"

	"evbs/src/models"
	"evbs/src/types"
)

// Ledger records bookings against the event inventory. Every method expects
// to run inside a Store.UpdateEvent scope for the booking's event.
type Ledger struct {
	inv Inventory
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// CreateBooking reserves seats on the event and persists a confirmed booking
// plus the decremented seat counter.
func (l *Ledger) CreateBooking(ctx context.Context, tx Tx, event *models.Event, userID uint, seats uint) (*models.Booking, error) {
	if err := l.inv.Reserve(event, seats); err != nil {
		return nil, err
	}
	b := &models.Booking{
		EventID:  event.ID,
		UserID:   userID,
		Seats:    seats,
		Status:   types.BOOKING_CONFIRMED,
		BookedAt: time.Now(),
	}
	if err := tx.Bookings().Create(ctx, b); err != nil {
		return nil, err
	}
	if err := tx.Events().SetAvailableSeats(ctx, event.ID, event.AvailableSeats); err != nil {
		return nil, err
	}
	return b, nil
}

// confirmPromoted persists a confirmed booking for a promoted waitlist entry.
// The released seats already cover the entry, so no admission check runs here.
func (l *Ledger) confirmPromoted(ctx context.Context, tx Tx, entry *models.WaitlistEntry) (*models.Booking, error) {
	b := &models.Booking{
		EventID:  entry.EventID,
		UserID:   entry.UserID,
		Seats:    entry.RequestedSeats,
		Status:   types.BOOKING_CONFIRMED,
		BookedAt: time.Now(),
	}
	if err := tx.Bookings().Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking marks the booking canceled and returns its seats to the event.
// Only the booking owner may cancel, and a canceled booking stays canceled.
func (l *Ledger) CancelBooking(ctx context.Context, tx Tx, booking *models.Booking, event *models.Event, userID uint) error {
	if booking.UserID != userID {
		return ErrAccessDenied
	}
	if booking.Status == types.BOOKING_CANCELED {
		return ErrAlreadyCanceled
	}
	if err := tx.Bookings().SetStatus(ctx, booking.ID, types.BOOKING_CANCELED); err != nil {
		return err
	}
	booking.Status = types.BOOKING_CANCELED
	if err := l.inv.Release(event, booking.Seats); err != nil {
		return err
	}
	return tx.Events().SetAvailableSeats(ctx, event.ID, event.AvailableSeats)
}
