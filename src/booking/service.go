package booking

import (
	"context"
	"log"

	"evbs/src/models"
	"evbs/src/types"
)

// Service is the facade the transport layer talks to. All seat mutations go
// through Store.UpdateEvent so concurrent requests for one event serialize on
// its row lock.
type Service struct {
	store    Store
	notifier Notifier
	ledger   *Ledger
	queue    Queue
	engine   *Engine
}

func NewService(store Store, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	ledger := NewLedger()
	return &Service{
		store:    store,
		notifier: notifier,
		ledger:   ledger,
		engine:   NewEngine(ledger),
	}
}

// BookSeats books seats on a published event and returns the booking id.
func (s *Service) BookSeats(ctx context.Context, eventID, userID uint, seats uint) (uint, error) {
	var (
		event   *models.Event
		user    *models.User
		created *models.Booking
	)
	err := s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		var err error
		if event, err = tx.Events().Get(ctx, eventID); err != nil {
			return err
		}
		if user, err = tx.Users().Get(ctx, userID); err != nil {
			return err
		}
		created, err = s.ledger.CreateBooking(ctx, tx, event, user.ID, seats)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.notifier.BookingConfirmed(ctx, user, event, created)
	return created.ID, nil
}

// CancelBooking cancels the booking, releases its seats and promotes from the
// waitlist, all in one transaction on the event row.
func (s *Service) CancelBooking(ctx context.Context, bookingID, userID uint) (*PromotionReport, error) {
	var eventID uint
	if err := s.store.View(ctx, func(tx Tx) error {
		b, err := tx.Bookings().Get(ctx, bookingID)
		if err != nil {
			return err
		}
		eventID = b.EventID
		return nil
	}); err != nil {
		return nil, err
	}

	var (
		event   *models.Event
		user    *models.User
		booking *models.Booking
		report  *PromotionReport
	)
	err := s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		var err error
		if booking, err = tx.Bookings().Get(ctx, bookingID); err != nil {
			return err
		}
		if event, err = tx.Events().Get(ctx, booking.EventID); err != nil {
			return err
		}
		if user, err = tx.Users().Get(ctx, booking.UserID); err != nil {
			return err
		}
		if err = s.ledger.CancelBooking(ctx, tx, booking, event, userID); err != nil {
			return err
		}
		report, err = s.engine.Promote(ctx, tx, event, booking.Seats)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifier.BookingCanceled(ctx, user, event, booking)
	if report.HasPromotions {
		s.notifier.WaitlistPromoted(ctx, report)
	}
	return report, nil
}

// JoinWaitlist puts the user in line for an event that cannot satisfy the
// request right now.
func (s *Service) JoinWaitlist(ctx context.Context, eventID, userID uint, seats uint) (uint, error) {
	var (
		event *models.Event
		user  *models.User
		entry *models.WaitlistEntry
	)
	err := s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		var err error
		if event, err = tx.Events().Get(ctx, eventID); err != nil {
			return err
		}
		if user, err = tx.Users().Get(ctx, userID); err != nil {
			return err
		}
		entry, err = s.queue.Join(ctx, tx, event, user.ID, seats)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.notifier.WaitlistJoined(ctx, user, event, entry)
	return entry.ID, nil
}

// LeaveWaitlist removes the user's own entry from the queue.
func (s *Service) LeaveWaitlist(ctx context.Context, entryID, userID uint) error {
	var eventID uint
	if err := s.store.View(ctx, func(tx Tx) error {
		e, err := tx.Waitlist().Get(ctx, entryID)
		if err != nil {
			return err
		}
		eventID = e.EventID
		return nil
	}); err != nil {
		return err
	}
	return s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		entry, err := tx.Waitlist().Get(ctx, entryID)
		if err != nil {
			return err
		}
		return s.queue.Leave(ctx, tx, entry, userID)
	})
}

// NotifyWaitlist flags all waiting entries of an event as notified. Admin
// operation, gated on event ownership. Returns how many entries were flagged.
func (s *Service) NotifyWaitlist(ctx context.Context, eventID, adminID uint) (int64, error) {
	var flagged int64
	err := s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		event, err := tx.Events().Get(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatedBy != adminID {
			return ErrAccessDenied
		}
		flagged, err = s.queue.MarkNotified(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return flagged, nil
}

// CancelEvent cancels the event, voids its confirmed bookings and empties the
// inventory. Only the creating admin may cancel.
func (s *Service) CancelEvent(ctx context.Context, eventID, adminID uint) error {
	return s.store.UpdateEvent(ctx, eventID, func(tx Tx) error {
		event, err := tx.Events().Get(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatedBy != adminID {
			return ErrAccessDenied
		}
		if event.Status == types.EVENT_CANCELED {
			return nil
		}
		voided, err := tx.Bookings().CancelConfirmedForEvent(ctx, eventID)
		if err != nil {
			return err
		}
		log.Printf("[events] canceled event=%d voided_bookings=%d\n", eventID, voided)
		if err := tx.Events().SetStatus(ctx, eventID, types.EVENT_CANCELED); err != nil {
			return err
		}
		return tx.Events().SetAvailableSeats(ctx, eventID, 0)
	})
}

func (s *Service) UserBookings(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		bookings, err = tx.Bookings().ListByUser(ctx, userID)
		return err
	})
	return bookings, err
}

func (s *Service) UserWaitlist(ctx context.Context, userID uint) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		entries, err = tx.Waitlist().ListByUser(ctx, userID)
		return err
	})
	return entries, err
}

func (s *Service) WaitlistCount(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := s.store.View(ctx, func(tx Tx) error {
		var err error
		count, err = tx.Waitlist().CountWaiting(ctx, eventID)
		return err
	})
	return count, err
}
