package booking

import (
	"testing"

	"evbs/src/models"
	"evbs/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryReserve(t *testing.T) {
	var inv Inventory

	tests := []struct {
		name      string
		status    types.EventStatus
		available uint
		seats     uint
		wantErr   error
		wantLeft  uint
	}{
		{"books one seat", types.EVENT_PUBLISHED, 5, 1, nil, 4},
		{"books the cap", types.EVENT_PUBLISHED, 5, MaxSeatsPerBooking, nil, 0},
		{"zero seats", types.EVENT_PUBLISHED, 5, 0, ErrInvalidSeatCount, 5},
		{"over the cap", types.EVENT_PUBLISHED, 10, MaxSeatsPerBooking + 1, ErrInvalidSeatCount, 10},
		{"not enough seats", types.EVENT_PUBLISHED, 2, 3, ErrInsufficientSeats, 2},
		{"draft event", types.EVENT_DRAFT, 5, 1, ErrEventNotBookable, 5},
		{"completed event", types.EVENT_COMPLETED, 5, 1, ErrEventNotBookable, 5},
		{"canceled event", types.EVENT_CANCELED, 5, 1, ErrEventNotBookable, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &models.Event{ID: 1, Status: tt.status, TotalSeats: 10, AvailableSeats: tt.available}
			err := inv.Reserve(event, tt.seats)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantLeft, event.AvailableSeats)
		})
	}
}

func TestInventoryRelease(t *testing.T) {
	var inv Inventory

	t.Run("returns seats", func(t *testing.T) {
		event := &models.Event{ID: 1, TotalSeats: 10, AvailableSeats: 7}
		require.NoError(t, inv.Release(event, 3))
		assert.Equal(t, uint(10), event.AvailableSeats)
	})

	t.Run("never exceeds total seats", func(t *testing.T) {
		event := &models.Event{ID: 1, TotalSeats: 10, AvailableSeats: 9}
		err := inv.Release(event, 2)
		var inv2 *InvariantError
		require.ErrorAs(t, err, &inv2)
		assert.Equal(t, uint(1), inv2.EventID)
		assert.Equal(t, "event 1 seat counter out of range: available=11 total=10", err.Error())
		assert.Equal(t, uint(9), event.AvailableSeats)
	})
}

func TestPromotionReportMessage(t *testing.T) {
	t.Run("empty pass", func(t *testing.T) {
		report := newPromotionReport(nil)
		assert.False(t, report.HasPromotions)
		assert.Zero(t, report.TotalPromotedUsers)
		assert.NotNil(t, report.PromotedUsers)
		assert.Empty(t, report.PromotedUsers)
		assert.Equal(t, "No users were promoted from waitlist", report.Message)
	})

	t.Run("lists promoted users in order", func(t *testing.T) {
		report := newPromotionReport([]PromotedUser{
			{UserID: 2, UserName: "Alice Johnson", SeatsPromoted: 2},
			{UserID: 3, UserName: "Bob Smith", SeatsPromoted: 1},
		})
		assert.True(t, report.HasPromotions)
		assert.Equal(t, 2, report.TotalPromotedUsers)
		assert.Equal(t, uint(3), report.TotalSeatsPromoted)
		assert.Equal(t,
			"Successfully promoted 2 user(s) from waitlist for a total of 3 seat(s). Promoted users: Alice Johnson (2 seats), Bob Smith (1 seats)",
			report.Message)
	})
}
