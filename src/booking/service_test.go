package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"evbs/src/models"
	"evbs/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEventDate = time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)

func publishedEvent(id uint, total, available uint) models.Event {
	dt := testEventDate
	return models.Event{
		ID:             id,
		Title:          "Go Conference",
		Status:         types.EVENT_PUBLISHED,
		DateTime:       &dt,
		TotalSeats:     total,
		AvailableSeats: available,
		CreatedBy:      1,
	}
}

func testUser(id uint, name string) models.User {
	return models.User{ID: id, Name: name, Email: name + "@example.com", Role: "user"}
}

func waitingEntry(id, eventID, userID, seats uint, joinedAt time.Time) models.WaitlistEntry {
	return models.WaitlistEntry{
		ID:             id,
		EventID:        eventID,
		UserID:         userID,
		RequestedSeats: seats,
		Status:         types.WAITLIST_WAITING,
		JoinedAt:       joinedAt,
	}
}

func TestBookSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements available seats", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 10)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		id, err := svc.BookSeats(ctx, 1, 2, 3)
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, uint(7), store.events[1].AvailableSeats)
		assert.Equal(t, types.BOOKING_CONFIRMED, store.bookings[id].Status)
	})

	t.Run("rejects zero and oversized requests", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 10)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.BookSeats(ctx, 1, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidSeatCount)
		_, err = svc.BookSeats(ctx, 1, 2, MaxSeatsPerBooking+1)
		assert.ErrorIs(t, err, ErrInvalidSeatCount)
		assert.Equal(t, uint(10), store.events[1].AvailableSeats)
	})

	t.Run("rejects requests over available seats", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 2)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.BookSeats(ctx, 1, 2, 3)
		assert.ErrorIs(t, err, ErrInsufficientSeats)
		assert.Equal(t, uint(2), store.events[1].AvailableSeats)
	})

	t.Run("rejects unpublished events", func(t *testing.T) {
		event := publishedEvent(1, 10, 10)
		event.Status = types.EVENT_DRAFT
		store := newMemStore().addEvent(event).addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.BookSeats(ctx, 1, 2, 1)
		assert.ErrorIs(t, err, ErrEventNotBookable)
	})

	t.Run("unknown event", func(t *testing.T) {
		store := newMemStore().addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.BookSeats(ctx, 99, 2, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookSeatsLastSeatRace(t *testing.T) {
	ctx := context.Background()
	store := newMemStore().
		addEvent(publishedEvent(1, 10, 1)).
		addUser(testUser(2, "alice")).
		addUser(testUser(3, "bob"))
	svc := NewService(store, nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.BookSeats(ctx, 1, 2, 1)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.BookSeats(ctx, 1, 3, 1)
	}()
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientSeats)
			lost++
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Equal(t, uint(0), store.events[1].AvailableSeats)
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("releases seats", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 7)).
			addUser(testUser(2, "alice")).
			addBooking(models.Booking{ID: 5, EventID: 1, UserID: 2, Seats: 3, Status: types.BOOKING_CONFIRMED})
		svc := NewService(store, nil)

		report, err := svc.CancelBooking(ctx, 5, 2)
		require.NoError(t, err)
		assert.False(t, report.HasPromotions)
		assert.Equal(t, "No users were promoted from waitlist", report.Message)
		assert.Equal(t, types.BOOKING_CANCELED, store.bookings[5].Status)
		assert.Equal(t, uint(10), store.events[1].AvailableSeats)
	})

	t.Run("second cancel fails", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 7)).
			addUser(testUser(2, "alice")).
			addBooking(models.Booking{ID: 5, EventID: 1, UserID: 2, Seats: 3, Status: types.BOOKING_CONFIRMED})
		svc := NewService(store, nil)

		_, err := svc.CancelBooking(ctx, 5, 2)
		require.NoError(t, err)
		_, err = svc.CancelBooking(ctx, 5, 2)
		assert.ErrorIs(t, err, ErrAlreadyCanceled)
		assert.Equal(t, uint(10), store.events[1].AvailableSeats)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 7)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addBooking(models.Booking{ID: 5, EventID: 1, UserID: 2, Seats: 3, Status: types.BOOKING_CONFIRMED})
		svc := NewService(store, nil)

		_, err := svc.CancelBooking(ctx, 5, 3)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, types.BOOKING_CONFIRMED, store.bookings[5].Status)
	})

	t.Run("unknown booking", func(t *testing.T) {
		store := newMemStore().addEvent(publishedEvent(1, 10, 10))
		svc := NewService(store, nil)

		_, err := svc.CancelBooking(ctx, 42, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPromotionFIFO(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("head of line blocks smaller requests behind it", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addUser(testUser(4, "carol")).
			addUser(testUser(5, "dave")).
			addBooking(models.Booking{ID: 9, EventID: 1, UserID: 5, Seats: 2, Status: types.BOOKING_CONFIRMED}).
			addEntry(waitingEntry(1, 1, 2, 3, base)).
			addEntry(waitingEntry(2, 1, 3, 2, base.Add(time.Minute))).
			addEntry(waitingEntry(3, 1, 4, 1, base.Add(2*time.Minute)))
		svc := NewService(store, nil)

		report, err := svc.CancelBooking(ctx, 9, 5)
		require.NoError(t, err)
		assert.False(t, report.HasPromotions)
		assert.Len(t, store.waitlist, 3)
		assert.Equal(t, uint(2), store.events[1].AvailableSeats)
	})

	t.Run("promotes in join order while requests fit", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addUser(testUser(4, "carol")).
			addUser(testUser(5, "dave")).
			addBooking(models.Booking{ID: 9, EventID: 1, UserID: 5, Seats: 5, Status: types.BOOKING_CONFIRMED}).
			addEntry(waitingEntry(1, 1, 2, 2, base)).
			addEntry(waitingEntry(2, 1, 3, 2, base.Add(time.Minute))).
			addEntry(waitingEntry(3, 1, 4, 2, base.Add(2*time.Minute)))
		svc := NewService(store, nil)

		report, err := svc.CancelBooking(ctx, 9, 5)
		require.NoError(t, err)
		require.True(t, report.HasPromotions)
		assert.Equal(t, 2, report.TotalPromotedUsers)
		assert.Equal(t, uint(4), report.TotalSeatsPromoted)
		assert.Equal(t, uint(2), report.PromotedUsers[0].UserID)
		assert.Equal(t, uint(3), report.PromotedUsers[1].UserID)
		assert.Equal(t,
			"Successfully promoted 2 user(s) from waitlist for a total of 4 seat(s). Promoted users: alice (2 seats), bob (2 seats)",
			report.Message)

		// carol is still waiting, and her entry survived the pass
		assert.Len(t, store.waitlist, 1)
		assert.Equal(t, uint(4), store.waitlist[3].UserID)
		// 5 released, 4 consumed by promotions
		assert.Equal(t, uint(1), store.events[1].AvailableSeats)

		var confirmed int
		for _, b := range store.bookings {
			if b.Status == types.BOOKING_CONFIRMED {
				confirmed++
			}
		}
		assert.Equal(t, 2, confirmed)
	})

	t.Run("successive small releases never accumulate", func(t *testing.T) {
		// Seats free up 2 then 1 while the head wants 3. Each pass sees only
		// its own release, so the head stays waiting and the 3 seats remain
		// available for direct booking.
		store := newMemStore().
			addEvent(publishedEvent(1, 5, 0)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addUser(testUser(4, "carol")).
			addBooking(models.Booking{ID: 7, EventID: 1, UserID: 3, Seats: 2, Status: types.BOOKING_CONFIRMED}).
			addBooking(models.Booking{ID: 8, EventID: 1, UserID: 4, Seats: 1, Status: types.BOOKING_CONFIRMED}).
			addBooking(models.Booking{ID: 9, EventID: 1, UserID: 4, Seats: 2, Status: types.BOOKING_CONFIRMED}).
			addEntry(waitingEntry(1, 1, 2, 3, base))
		svc := NewService(store, nil)

		report, err := svc.CancelBooking(ctx, 7, 3)
		require.NoError(t, err)
		assert.False(t, report.HasPromotions)
		assert.Equal(t, uint(2), store.events[1].AvailableSeats)

		report, err = svc.CancelBooking(ctx, 8, 4)
		require.NoError(t, err)
		assert.False(t, report.HasPromotions)
		assert.Equal(t, uint(3), store.events[1].AvailableSeats)

		entry, ok := store.waitlist[1]
		require.True(t, ok)
		assert.Equal(t, types.WAITLIST_WAITING, entry.Status)
	})
}

func TestJoinWaitlist(t *testing.T) {
	ctx := context.Background()

	t.Run("queues when the event cannot satisfy the request", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 2)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		id, err := svc.JoinWaitlist(ctx, 1, 2, 3)
		require.NoError(t, err)
		entry := store.waitlist[id]
		require.NotNil(t, entry)
		assert.Equal(t, types.WAITLIST_WAITING, entry.Status)
		assert.Equal(t, uint(3), entry.RequestedSeats)
		// joining consumes no seats
		assert.Equal(t, uint(2), store.events[1].AvailableSeats)
	})

	t.Run("rejected while seats still fit the request", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 5)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.JoinWaitlist(ctx, 1, 2, 3)
		assert.ErrorIs(t, err, ErrEventHasCapacity)
	})

	t.Run("one waiting entry per user and event", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.JoinWaitlist(ctx, 1, 2, 2)
		require.NoError(t, err)
		_, err = svc.JoinWaitlist(ctx, 1, 2, 1)
		assert.ErrorIs(t, err, ErrDuplicateWaitlistEntry)
	})

	t.Run("may rejoin after leaving", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		id, err := svc.JoinWaitlist(ctx, 1, 2, 2)
		require.NoError(t, err)
		require.NoError(t, svc.LeaveWaitlist(ctx, id, 2))
		_, err = svc.JoinWaitlist(ctx, 1, 2, 2)
		assert.NoError(t, err)
	})

	t.Run("rejects zero seats", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice"))
		svc := NewService(store, nil)

		_, err := svc.JoinWaitlist(ctx, 1, 2, 0)
		assert.ErrorIs(t, err, ErrInvalidSeatCount)
	})
}

func TestLeaveWaitlist(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("only the owner may leave", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addEntry(waitingEntry(1, 1, 2, 2, base))
		svc := NewService(store, nil)

		err := svc.LeaveWaitlist(ctx, 1, 3)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Len(t, store.waitlist, 1)
	})

	t.Run("unknown entry", func(t *testing.T) {
		store := newMemStore().addEvent(publishedEvent(1, 10, 0))
		svc := NewService(store, nil)

		err := svc.LeaveWaitlist(ctx, 42, 2)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestNotifyWaitlist(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("flags waiting entries without consuming seats", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 4)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addEntry(waitingEntry(1, 1, 2, 2, base)).
			addEntry(waitingEntry(2, 1, 3, 1, base.Add(time.Minute)))
		svc := NewService(store, nil)

		flagged, err := svc.NotifyWaitlist(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), flagged)
		assert.Equal(t, uint(4), store.events[1].AvailableSeats)
		assert.Empty(t, store.bookings)
		for _, e := range store.waitlist {
			assert.Equal(t, types.WAITLIST_NOTIFIED, e.Status)
			assert.NotNil(t, e.NotifiedAt)
		}
	})

	t.Run("notified entries are no longer promotion candidates", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 0)).
			addUser(testUser(2, "alice")).
			addUser(testUser(3, "bob")).
			addBooking(models.Booking{ID: 5, EventID: 1, UserID: 3, Seats: 2, Status: types.BOOKING_CONFIRMED}).
			addEntry(waitingEntry(1, 1, 2, 2, base))
		svc := NewService(store, nil)

		_, err := svc.NotifyWaitlist(ctx, 1, 1)
		require.NoError(t, err)

		report, err := svc.CancelBooking(ctx, 5, 3)
		require.NoError(t, err)
		assert.False(t, report.HasPromotions)
		assert.Equal(t, uint(2), store.events[1].AvailableSeats)
	})

	t.Run("gated on event ownership", func(t *testing.T) {
		store := newMemStore().addEvent(publishedEvent(1, 10, 0))
		svc := NewService(store, nil)

		_, err := svc.NotifyWaitlist(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestCancelEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("voids bookings and empties inventory", func(t *testing.T) {
		store := newMemStore().
			addEvent(publishedEvent(1, 10, 5)).
			addUser(testUser(2, "alice")).
			addBooking(models.Booking{ID: 5, EventID: 1, UserID: 2, Seats: 3, Status: types.BOOKING_CONFIRMED}).
			addBooking(models.Booking{ID: 6, EventID: 1, UserID: 2, Seats: 2, Status: types.BOOKING_CANCELED})
		svc := NewService(store, nil)

		require.NoError(t, svc.CancelEvent(ctx, 1, 1))
		assert.Equal(t, types.EVENT_CANCELED, store.events[1].Status)
		assert.Equal(t, uint(0), store.events[1].AvailableSeats)
		assert.Equal(t, types.BOOKING_CANCELED, store.bookings[5].Status)
	})

	t.Run("idempotent once canceled", func(t *testing.T) {
		store := newMemStore().addEvent(publishedEvent(1, 10, 5))
		svc := NewService(store, nil)

		require.NoError(t, svc.CancelEvent(ctx, 1, 1))
		require.NoError(t, svc.CancelEvent(ctx, 1, 1))
	})

	t.Run("gated on event ownership", func(t *testing.T) {
		store := newMemStore().addEvent(publishedEvent(1, 10, 5))
		svc := NewService(store, nil)

		err := svc.CancelEvent(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, types.EVENT_PUBLISHED, store.events[1].Status)
	})
}

func TestWaitlistCount(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	store := newMemStore().
		addEvent(publishedEvent(1, 10, 0)).
		addEntry(waitingEntry(1, 1, 2, 2, base)).
		addEntry(waitingEntry(2, 1, 3, 1, base.Add(time.Minute))).
		addEntry(models.WaitlistEntry{ID: 3, EventID: 1, UserID: 4, RequestedSeats: 1, Status: types.WAITLIST_NOTIFIED, JoinedAt: base})
	svc := NewService(store, nil)

	count, err := svc.WaitlistCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
