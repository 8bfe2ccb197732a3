package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"evbs/src/models"
	"evbs/src/types"
)

// memStore is an in-memory Store for tests. One mutex stands in for the
// per-event row lock, which is enough since each test drives a single event.
// Reads hand out copies so uncommitted mutations never leak into the store.
type memStore struct {
	mu       sync.Mutex
	events   map[uint]*models.Event
	users    map[uint]*models.User
	bookings map[uint]*models.Booking
	waitlist map[uint]*models.WaitlistEntry

	nextBookingID  uint
	nextWaitlistID uint
}

func newMemStore() *memStore {
	return &memStore{
		events:   map[uint]*models.Event{},
		users:    map[uint]*models.User{},
		bookings: map[uint]*models.Booking{},
		waitlist: map[uint]*models.WaitlistEntry{},
	}
}

func (s *memStore) addEvent(e models.Event) *memStore {
	s.events[e.ID] = &e
	return s
}

func (s *memStore) addUser(u models.User) *memStore {
	s.users[u.ID] = &u
	return s
}

func (s *memStore) addBooking(b models.Booking) *memStore {
	if b.ID > s.nextBookingID {
		s.nextBookingID = b.ID
	}
	s.bookings[b.ID] = &b
	return s
}

func (s *memStore) addEntry(e models.WaitlistEntry) *memStore {
	if e.ID > s.nextWaitlistID {
		s.nextWaitlistID = e.ID
	}
	s.waitlist[e.ID] = &e
	return s
}

func (s *memStore) View(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&memTx{s: s})
}

func (s *memStore) UpdateEvent(ctx context.Context, eventID uint, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; !ok {
		return ErrNotFound
	}
	return fn(&memTx{s: s})
}

type memTx struct {
	s *memStore
}

func (t *memTx) Events() EventStore     { return (*memEvents)(t) }
func (t *memTx) Users() UserStore       { return (*memUsers)(t) }
func (t *memTx) Bookings() BookingStore { return (*memBookings)(t) }
func (t *memTx) Waitlist() WaitlistStore {
	return (*memWaitlist)(t)
}

type memEvents memTx

func (m *memEvents) Get(ctx context.Context, id uint) (*models.Event, error) {
	e, ok := m.s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEvents) SetAvailableSeats(ctx context.Context, id uint, seats uint) error {
	e, ok := m.s.events[id]
	if !ok {
		return ErrNotFound
	}
	e.AvailableSeats = seats
	return nil
}

func (m *memEvents) SetStatus(ctx context.Context, id uint, status types.EventStatus) error {
	e, ok := m.s.events[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = status
	return nil
}

type memUsers memTx

func (m *memUsers) Get(ctx context.Context, id uint) (*models.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memBookings memTx

func (m *memBookings) Get(ctx context.Context, id uint) (*models.Booking, error) {
	b, ok := m.s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBookings) Create(ctx context.Context, b *models.Booking) error {
	m.s.nextBookingID++
	b.ID = m.s.nextBookingID
	cp := *b
	m.s.bookings[b.ID] = &cp
	return nil
}

func (m *memBookings) SetStatus(ctx context.Context, id uint, status types.BookingStatus) error {
	b, ok := m.s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memBookings) ListByUser(ctx context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memBookings) CancelConfirmedForEvent(ctx context.Context, eventID uint) (int64, error) {
	var n int64
	for _, b := range m.s.bookings {
		if b.EventID == eventID && b.Status == types.BOOKING_CONFIRMED {
			b.Status = types.BOOKING_CANCELED
			n++
		}
	}
	return n, nil
}

type memWaitlist memTx

func (m *memWaitlist) Get(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	e, ok := m.s.waitlist[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memWaitlist) Create(ctx context.Context, e *models.WaitlistEntry) error {
	m.s.nextWaitlistID++
	e.ID = m.s.nextWaitlistID
	cp := *e
	m.s.waitlist[e.ID] = &cp
	return nil
}

func (m *memWaitlist) Delete(ctx context.Context, id uint) error {
	if _, ok := m.s.waitlist[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.waitlist, id)
	return nil
}

func (m *memWaitlist) HasWaiting(ctx context.Context, eventID, userID uint) (bool, error) {
	for _, e := range m.s.waitlist {
		if e.EventID == eventID && e.UserID == userID && e.Status == types.WAITLIST_WAITING {
			return true, nil
		}
	}
	return false, nil
}

func (m *memWaitlist) Waiting(ctx context.Context, eventID uint) ([]models.WaitlistEntry, error) {
	var out []models.WaitlistEntry
	for _, e := range m.s.waitlist {
		if e.EventID == eventID && e.Status == types.WAITLIST_WAITING {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (m *memWaitlist) CountWaiting(ctx context.Context, eventID uint) (int64, error) {
	var n int64
	for _, e := range m.s.waitlist {
		if e.EventID == eventID && e.Status == types.WAITLIST_WAITING {
			n++
		}
	}
	return n, nil
}

func (m *memWaitlist) ListByUser(ctx context.Context, userID uint) ([]models.WaitlistEntry, error) {
	var out []models.WaitlistEntry
	for _, e := range m.s.waitlist {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memWaitlist) MarkNotified(ctx context.Context, eventID uint, at time.Time) (int64, error) {
	var n int64
	for _, e := range m.s.waitlist {
		if e.EventID == eventID && e.Status == types.WAITLIST_WAITING {
			e.Status = types.WAITLIST_NOTIFIED
			ts := at
			e.NotifiedAt = &ts
			n++
		}
	}
	return n, nil
}
