package booking

import (
	"fmt"
	"strings"
)

type PromotedUser struct {
	UserID        uint   `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	EventID       uint   `json:"event_id"`
	EventTitle    string `json:"event_title"`
	SeatsPromoted uint   `json:"seats_promoted"`
	BookingID     uint   `json:"booking_id"`
}

// PromotionReport summarizes one promotion pass over an event's waitlist.
type PromotionReport struct {
	HasPromotions      bool           `json:"has_promotions"`
	TotalPromotedUsers int            `json:"total_promoted_users"`
	TotalSeatsPromoted uint           `json:"total_seats_promoted"`
	PromotedUsers      []PromotedUser `json:"promoted_users"`
	Message            string         `json:"message"`
}

func newPromotionReport(promoted []PromotedUser) *PromotionReport {
	if len(promoted) == 0 {
		return &PromotionReport{
			PromotedUsers: []PromotedUser{},
			Message:       "No users were promoted from waitlist",
		}
	}
	var seats uint
	names := make([]string, 0, len(promoted))
	for _, p := range promoted {
		seats += p.SeatsPromoted
		names = append(names, fmt.Sprintf("%s (%d seats)", p.UserName, p.SeatsPromoted))
	}
	return &PromotionReport{
		HasPromotions:      true,
		TotalPromotedUsers: len(promoted),
		TotalSeatsPromoted: seats,
		PromotedUsers:      promoted,
		Message: fmt.Sprintf(
			"Successfully promoted %d user(s) from waitlist for a total of %d seat(s). Promoted users: %s",
			len(promoted), seats, strings.Join(names, ", "),
		),
	}
}
