package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELED  EventStatus = "canceled"
)

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "canceled"
)

type WaitlistStatus string

const (
	WAITLIST_WAITING  WaitlistStatus = "waiting"
	WAITLIST_NOTIFIED WaitlistStatus = "notified"
)

type CreateEventRequestBody struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location" binding:"required"`
	Category    string `json:"category,omitempty"`
	DateTime    string `json:"date_time" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TotalSeats  uint   `json:"total_seats" binding:"required,min=1"`
	Publish     bool   `json:"publish,omitempty"`
}

type UpdateEventRequestBody struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Category    *string `json:"category,omitempty"`
	DateTime    *string `json:"date_time,omitempty" binding:"omitempty,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	TotalSeats  *uint   `json:"total_seats,omitempty" binding:"omitempty,min=1"`
}

type BookSeatsRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
	Seats   uint `json:"seats" binding:"required,min=1"`
}

type JoinWaitlistRequestBody struct {
	EventID uint `json:"event_id" binding:"required"`
	Seats   uint `json:"seats" binding:"required,min=1"`
}

type EventFeedbackRequestBody struct {
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment,omitempty"`
	Suggestions    string `json:"suggestions,omitempty"`
	WouldRecommend bool   `json:"would_recommend,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type EventQueryFilters struct {
	Keyword  string `form:"q"`
	Category string `form:"category"`
}

type EventStats struct {
	EventID        uint    `json:"event_id"`
	TotalSeats     uint    `json:"total_seats"`
	AvailableSeats uint    `json:"available_seats"`
	BookedSeats    uint    `json:"booked_seats"`
	Bookings       int64   `json:"bookings"`
	Waiting        int64   `json:"waiting"`
	Occupancy      float64 `json:"occupancy"`
}

type Claims struct {
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type Handler func(payload string)
