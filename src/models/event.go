package models

import (
	"evbs/src/types"
	"time"
)

type Event struct {
	ID             uint              `gorm:"primarykey" json:"id"`
	Title          string            `json:"title,omitempty"`
	Description    *string           `json:"description,omitempty"`
	Location       string            `json:"location,omitempty"`
	Category       string            `gorm:"default:'general'" json:"category,omitempty"`
	Slug           string            `json:"slug,omitempty"`
	DateTime       *time.Time        `json:"date_time,omitempty"`
	Status         types.EventStatus `gorm:"default:'draft'" json:"status,omitempty"`
	TotalSeats     uint              `json:"total_seats"`
	AvailableSeats uint              `json:"available_seats"`
	CreatedBy      uint              `json:"created_by,omitempty"`

	Creator  User            `gorm:"foreignKey:created_by" json:"-"`
	Bookings []Booking       `gorm:"foreignKey:event_id" json:"bookings,omitempty"`
	Waitlist []WaitlistEntry `gorm:"foreignKey:event_id" json:"waitlist,omitempty"`

	types.Timestamps
}
