package booking

import (
	"context"

	"evbs/src/models"
)

// Notifier receives domain events after the surrounding transaction commits.
// Implementations must not fail the calling operation: deliver best-effort
// and log whatever goes wrong.
type Notifier interface {
	BookingConfirmed(ctx context.Context, user *models.User, event *models.Event, booking *models.Booking)
	BookingCanceled(ctx context.Context, user *models.User, event *models.Event, booking *models.Booking)
	WaitlistJoined(ctx context.Context, user *models.User, event *models.Event, entry *models.WaitlistEntry)
	WaitlistPromoted(ctx context.Context, report *PromotionReport)
}

type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, *models.User, *models.Event, *models.Booking) {}
func (NopNotifier) BookingCanceled(context.Context, *models.User, *models.Event, *models.Booking)  {}
func (NopNotifier) WaitlistJoined(context.Context, *models.User, *models.Event, *models.WaitlistEntry) {
}
func (NopNotifier) WaitlistPromoted(context.Context, *PromotionReport) {}
