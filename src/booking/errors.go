package booking

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrAccessDenied           = errors.New("access denied")
	ErrEventNotBookable       = errors.New("event is not open for booking")
	ErrInvalidSeatCount       = fmt.Errorf("seats must be between 1 and %d", MaxSeatsPerBooking)
	ErrInsufficientSeats      = errors.New("not enough seats available")
	ErrAlreadyCanceled        = errors.New("booking is already canceled")
	ErrDuplicateWaitlistEntry = errors.New("user already has a waiting entry for this event")
	ErrEventHasCapacity       = errors.New("event still has enough seats, book directly instead")
)

// InvariantError reports a seat counter that left the range [0, TotalSeats].
// It is never returned for ordinary admission failures, only for states that
// should be impossible under the per-event lock.
type InvariantError struct {
	EventID   uint
	Available int
	Total     uint
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("event %d seat counter out of range: available=%d total=%d", e.EventID, e.Available, e.Total)
}
