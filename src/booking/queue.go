package booking

import (
	"context"
	"time"

	"evbs/src/models"
	"evbs/src/types"
)

// Queue manages waitlist entries for events that are out of seats.
type Queue struct{}

// Join adds a waiting entry for the user. Joining is only allowed while the
// event cannot satisfy the request directly, and a user holds at most one
// waiting entry per event.
func (Queue) Join(ctx context.Context, tx Tx, event *models.Event, userID uint, seats uint) (*models.WaitlistEntry, error) {
	if seats < 1 {
		return nil, ErrInvalidSeatCount
	}
	if event.AvailableSeats >= seats {
		return nil, ErrEventHasCapacity
	}
	exists, err := tx.Waitlist().HasWaiting(ctx, event.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateWaitlistEntry
	}
	entry := &models.WaitlistEntry{
		EventID:        event.ID,
		UserID:         userID,
		RequestedSeats: seats,
		Status:         types.WAITLIST_WAITING,
		JoinedAt:       time.Now(),
	}
	if err := tx.Waitlist().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Leave removes the entry. Only its owner may remove it.
func (Queue) Leave(ctx context.Context, tx Tx, entry *models.WaitlistEntry, userID uint) error {
	if entry.UserID != userID {
		return ErrAccessDenied
	}
	return tx.Waitlist().Delete(ctx, entry.ID)
}

// MarkNotified flags every waiting entry of the event as notified. The flag
// is informational: it consumes no seats and creates no bookings.
func (Queue) MarkNotified(ctx context.Context, tx Tx, eventID uint) (int64, error) {
	return tx.Waitlist().MarkNotified(ctx, eventID, time.Now())
}
