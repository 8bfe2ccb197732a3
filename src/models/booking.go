package models

import (
	"evbs/src/types"
	"time"
)

type Booking struct {
	ID       uint                `gorm:"primarykey" json:"id"`
	EventID  uint                `json:"event_id,omitempty"`
	UserID   uint                `json:"user_id,omitempty"`
	Seats    uint                `json:"seats,omitempty"`
	Status   types.BookingStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	BookedAt time.Time           `json:"booked_at,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}
