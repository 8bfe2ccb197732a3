package models

import (
	"evbs/src/types"
	"time"
)

type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Role          string    `json:"role,omitempty"`
	UID           string    `json:"uid,omitempty"`
	EmailVerified bool      `json:"email_verified,omitempty"`
	VerifiedAt    time.Time `json:"verified_at,omitempty"`

	Bookings []Booking       `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Waitlist []WaitlistEntry `gorm:"foreignKey:user_id" json:"waitlist,omitempty"`

	types.Timestamps
}
