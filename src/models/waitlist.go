package models

import (
	"evbs/src/types"
	"time"
)

type WaitlistEntry struct {
	ID             uint                 `gorm:"primarykey" json:"id"`
	EventID        uint                 `json:"event_id,omitempty"`
	UserID         uint                 `json:"user_id,omitempty"`
	RequestedSeats uint                 `json:"requested_seats,omitempty"`
	Status         types.WaitlistStatus `gorm:"default:'waiting'" json:"status,omitempty"`
	JoinedAt       time.Time            `json:"joined_at,omitempty"`
	NotifiedAt     *time.Time           `json:"notified_at,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}
