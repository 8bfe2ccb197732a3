package booking

import (
	"context"
	"log"

	"evbs/src/models"
)

// Engine promotes waitlist entries after seats are released. It must run in
// the same Store.UpdateEvent scope as the release that triggered it.
type Engine struct {
	ledger *Ledger
}

func NewEngine(ledger *Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// Promote walks the waiting entries of the event in join order and promotes
// each entry whose full request fits into the seats released by the trigger.
// The walk stops at the first entry that does not fit: later, smaller
// requests never jump the queue.
func (e *Engine) Promote(ctx context.Context, tx Tx, event *models.Event, releasedSeats uint) (*PromotionReport, error) {
	entries, err := tx.Waitlist().Waiting(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return newPromotionReport(nil), nil
	}

	remaining := releasedSeats
	var promoted []PromotedUser
	for i := range entries {
		entry := &entries[i]
		if remaining < entry.RequestedSeats {
			break
		}
		user, err := tx.Users().Get(ctx, entry.UserID)
		if err != nil {
			return nil, err
		}
		b, err := e.ledger.confirmPromoted(ctx, tx, entry)
		if err != nil {
			return nil, err
		}
		if err := tx.Waitlist().Delete(ctx, entry.ID); err != nil {
			return nil, err
		}
		remaining -= entry.RequestedSeats
		promoted = append(promoted, PromotedUser{
			UserID:        user.ID,
			UserName:      user.Name,
			UserEmail:     user.Email,
			EventID:       event.ID,
			EventTitle:    event.Title,
			SeatsPromoted: entry.RequestedSeats,
			BookingID:     b.ID,
		})
		log.Printf("[promotion] event=%d user=%d seats=%d booking=%d\n", event.ID, user.ID, entry.RequestedSeats, b.ID)
	}

	if consumed := releasedSeats - remaining; consumed > 0 {
		if event.AvailableSeats < consumed {
			return nil, &InvariantError{
				EventID:   event.ID,
				Available: int(event.AvailableSeats) - int(consumed),
				Total:     event.TotalSeats,
			}
		}
		event.AvailableSeats -= consumed
		if err := tx.Events().SetAvailableSeats(ctx, event.ID, event.AvailableSeats); err != nil {
			return nil, err
		}
	}
	return newPromotionReport(promoted), nil
}
