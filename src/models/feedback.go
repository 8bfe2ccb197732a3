package models

import (
	"evbs/src/types"
	"time"
)

type EventFeedback struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	EventID        uint      `json:"event_id,omitempty"`
	UserID         uint      `json:"user_id,omitempty"`
	Rating         int       `json:"rating,omitempty"`
	Comment        string    `json:"comment,omitempty"`
	Suggestions    string    `json:"suggestions,omitempty"`
	WouldRecommend bool      `json:"would_recommend,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at,omitempty"`

	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

func (EventFeedback) TableName() string {
	return "event_feedback"
}
