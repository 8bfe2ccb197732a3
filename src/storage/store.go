package storage

import (
	"context"
	"errors"
	"time"

	"evbs/src/booking"
	"evbs/src/models"
	"evbs/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements booking.Store on top of gorm/Postgres. UpdateEvent takes a
// SELECT ... FOR UPDATE lock on the event row, which serializes every seat
// mutation for that event for the lifetime of the transaction.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) View(ctx context.Context, fn func(tx booking.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{tx: tx})
	})
}

func (s *Store) UpdateEvent(ctx context.Context, eventID uint, fn func(tx booking.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(&models.Event{ID: eventID}).
			First(&event).
			Error; err != nil {
			return translate(err)
		}
		return fn(&gormTx{tx: tx})
	})
}

type gormTx struct {
	tx *gorm.DB
}

func (t *gormTx) Events() booking.EventStore     { return &eventStore{tx: t.tx} }
func (t *gormTx) Users() booking.UserStore       { return &userStore{tx: t.tx} }
func (t *gormTx) Bookings() booking.BookingStore { return &bookingStore{tx: t.tx} }
func (t *gormTx) Waitlist() booking.WaitlistStore {
	return &waitlistStore{tx: t.tx}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.ErrNotFound
	}
	return err
}

type eventStore struct {
	tx *gorm.DB
}

func (s *eventStore) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.tx.Where(&models.Event{ID: id}).First(&event).Error; err != nil {
		return nil, translate(err)
	}
	return &event, nil
}

func (s *eventStore) SetAvailableSeats(ctx context.Context, id uint, seats uint) error {
	return s.tx.
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("available_seats", seats).
		Error
}

func (s *eventStore) SetStatus(ctx context.Context, id uint, status types.EventStatus) error {
	return s.tx.
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

type userStore struct {
	tx *gorm.DB
}

func (s *userStore) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.tx.Where(&models.User{ID: id}).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

type bookingStore struct {
	tx *gorm.DB
}

func (s *bookingStore) Get(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := s.tx.Where(&models.Booking{ID: id}).First(&b).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *bookingStore) Create(ctx context.Context, b *models.Booking) error {
	return s.tx.Create(b).Error
}

func (s *bookingStore) SetStatus(ctx context.Context, id uint, status types.BookingStatus) error {
	return s.tx.
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

func (s *bookingStore) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.tx.
		Where(&models.Booking{UserID: userID}).
		Preload("Event").
		Order("created_at desc").
		Find(&bookings).
		Error
	return bookings, err
}

func (s *bookingStore) CancelConfirmedForEvent(ctx context.Context, eventID uint) (int64, error) {
	res := s.tx.
		Model(&models.Booking{}).
		Where(&models.Booking{EventID: eventID, Status: types.BOOKING_CONFIRMED}).
		Update("status", types.BOOKING_CANCELED)
	return res.RowsAffected, res.Error
}

type waitlistStore struct {
	tx *gorm.DB
}

func (s *waitlistStore) Get(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry
	if err := s.tx.Where(&models.WaitlistEntry{ID: id}).First(&entry).Error; err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

func (s *waitlistStore) Create(ctx context.Context, e *models.WaitlistEntry) error {
	return s.tx.Create(e).Error
}

func (s *waitlistStore) Delete(ctx context.Context, id uint) error {
	return s.tx.Unscoped().Delete(&models.WaitlistEntry{}, id).Error
}

func (s *waitlistStore) HasWaiting(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64
	err := s.tx.
		Model(&models.WaitlistEntry{}).
		Where(&models.WaitlistEntry{EventID: eventID, UserID: userID, Status: types.WAITLIST_WAITING}).
		Count(&count).
		Error
	return count > 0, err
}

func (s *waitlistStore) Waiting(ctx context.Context, eventID uint) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.tx.
		Where(&models.WaitlistEntry{EventID: eventID, Status: types.WAITLIST_WAITING}).
		Order("joined_at asc").
		Find(&entries).
		Error
	return entries, err
}

func (s *waitlistStore) CountWaiting(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := s.tx.
		Model(&models.WaitlistEntry{}).
		Where(&models.WaitlistEntry{EventID: eventID, Status: types.WAITLIST_WAITING}).
		Count(&count).
		Error
	return count, err
}

func (s *waitlistStore) ListByUser(ctx context.Context, userID uint) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.tx.
		Where(&models.WaitlistEntry{UserID: userID}).
		Preload("Event").
		Order("joined_at desc").
		Find(&entries).
		Error
	return entries, err
}

func (s *waitlistStore) MarkNotified(ctx context.Context, eventID uint, at time.Time) (int64, error) {
	res := s.tx.
		Model(&models.WaitlistEntry{}).
		Where(&models.WaitlistEntry{EventID: eventID, Status: types.WAITLIST_WAITING}).
		Updates(map[string]any{
			"status":      types.WAITLIST_NOTIFIED,
			"notified_at": at,
		})
	return res.RowsAffected, res.Error
}
