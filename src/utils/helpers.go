package utils

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"evbs/src/config"
	"evbs/src/db"
	"evbs/src/lib"
	"evbs/src/models"
	"evbs/src/types"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithSuffix appends the environment suffix to a queue or topic name so local
// and deployed stacks never share queues.
func WithSuffix(name string) string {
	suffix := os.Getenv("QUEUE_SUFFIX")
	if suffix == "" {
		return name
	}
	return fmt.Sprintf("%s_%s", name, suffix)
}

func CreateNewEvent(params *types.CreateEventRequestBody, creatorId uint) (uint, error) {
	dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, params.DateTime)
	if err != nil {
		log.Printf("Error parsing date_time: %s\n", err.Error())
		return 0, err
	}
	dateTime = time.Date(
		dateTime.Year(),
		dateTime.Month(),
		dateTime.Day(),
		dateTime.Hour(),
		dateTime.Minute(),
		0,
		0,
		dateTime.Location(),
	)
	event := models.Event{
		Title:          params.Title,
		Location:       params.Location,
		Category:       params.Category,
		Slug:           slug.Make(params.Title),
		DateTime:       &dateTime,
		TotalSeats:     params.TotalSeats,
		AvailableSeats: params.TotalSeats,
		CreatedBy:      creatorId,
		Status:         types.EVENT_DRAFT,
	}
	if params.Description != "" {
		event.Description = &params.Description
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where(&models.User{ID: creatorId}).First(&user).Error; err != nil {
			return err
		}
		if user.Role != "admin" {
			return errors.New("not enough permissions to perform this action")
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		return 0, err
	}
	if params.Publish {
		if err := PublishEvent(event.ID, creatorId); err != nil {
			log.Printf("Failed to publish event: %s\n", err.Error())
			return 0, err
		}
	}
	return event.ID, nil
}

// UpdateDraftEvent applies partial updates. Only draft events can change, and
// resizing total seats keeps the full house available again.
func UpdateDraftEvent(id uint, params *types.UpdateEventRequestBody, adminId uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			return err
		}
		if event.CreatedBy != adminId {
			return errors.New("not enough permissions to perform this action")
		}
		if event.Status != types.EVENT_DRAFT {
			return errors.New("only draft events can be updated")
		}
		updates := map[string]any{}
		if params.Title != nil {
			updates["title"] = *params.Title
			updates["slug"] = slug.Make(*params.Title)
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.Location != nil {
			updates["location"] = *params.Location
		}
		if params.Category != nil {
			updates["category"] = *params.Category
		}
		if params.DateTime != nil {
			dateTime, err := time.Parse(config.TIME_PARSE_FORMAT, *params.DateTime)
			if err != nil {
				return err
			}
			updates["date_time"] = dateTime
		}
		if params.TotalSeats != nil {
			updates["total_seats"] = *params.TotalSeats
			updates["available_seats"] = *params.TotalSeats
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.
			Model(&models.Event{}).
			Where("id = ?", id).
			Updates(updates).
			Error
	})
}

// PublishEvent moves a draft event to published and schedules the completion
// job for its date.
func PublishEvent(id uint, adminId uint) error {
	var event models.Event
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: id}).
			First(&event).
			Error; err != nil {
			return err
		}
		if event.CreatedBy != adminId {
			return errors.New("not enough permissions to perform this action")
		}
		if event.Status != types.EVENT_DRAFT {
			return errors.New("only draft events can be published")
		}
		if event.DateTime == nil || event.DateTime.Before(time.Now()) {
			return errors.New("event date must be in the future")
		}
		return tx.
			Model(&models.Event{}).
			Where("id = ?", id).
			Update("status", types.EVENT_PUBLISHED).
			Error
	})
	if err != nil {
		return err
	}

	// Completion job fires at the event date and produces the
	// EventsToComplete message consumed at boot.
	go func() {
		runsAt := event.DateTime.UTC()
		runDate := time.Date(
			runsAt.Year(),
			runsAt.Month(),
			runsAt.Day(),
			runsAt.Hour(),
			runsAt.Minute(),
			0,
			0,
			runsAt.Location(),
		)
		jid, err := lib.NewScheduledJob(runDate, map[string]string{
			"clientId": "events_complete_producer",
			"topic":    "EventsToComplete",
		}, types.JSONB{
			"id":    int64(event.ID),
			"table": "events",
		})
		if err != nil {
			log.Printf("Error creating job for Event: id=%d error=%s\n", event.ID, err.Error())
			return
		}
		log.Printf("Created completion job for Event[%d] with ID %s\n", event.ID, jid.String())
	}()
	return nil
}

// CompleteEvent is the EventsToComplete consumer target.
func CompleteEvent(id uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.
			Model(&models.Event{}).
			Where(&models.Event{ID: id, Status: types.EVENT_PUBLISHED}).
			Update("status", types.EVENT_COMPLETED).
			Error
	})
}

// GetEventStats returns a seat/waitlist snapshot for an event, cached in
// redis for a short window.
func GetEventStats(ctx context.Context, id uint) (*types.EventStats, error) {
	cacheKey := fmt.Sprintf("event:%d:stats", id)
	if val := lib.CacheGet(ctx, cacheKey); val != "" {
		var cached types.EventStats
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return &cached, nil
		}
	}
	db := db.GetDb()
	var stats types.EventStats
	err := db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where(&models.Event{ID: id}).First(&event).Error; err != nil {
			return err
		}
		var bookings int64
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{EventID: id, Status: types.BOOKING_CONFIRMED}).
			Count(&bookings).
			Error; err != nil {
			return err
		}
		var waiting int64
		if err := tx.
			Model(&models.WaitlistEntry{}).
			Where(&models.WaitlistEntry{EventID: id, Status: types.WAITLIST_WAITING}).
			Count(&waiting).
			Error; err != nil {
			return err
		}
		stats = types.EventStats{
			EventID:        event.ID,
			TotalSeats:     event.TotalSeats,
			AvailableSeats: event.AvailableSeats,
			BookedSeats:    event.TotalSeats - event.AvailableSeats,
			Bookings:       bookings,
			Waiting:        waiting,
		}
		if event.TotalSeats > 0 {
			stats.Occupancy = float64(event.TotalSeats-event.AvailableSeats) / float64(event.TotalSeats)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(&stats); err == nil {
		lib.CacheSetEx(ctx, cacheKey, string(b), 30*time.Second)
	}
	return &stats, nil
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}
