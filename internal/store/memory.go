package store

import (
	"context"
	"sync"

	"ticketbooker/internal/models"

	"github.com/google/uuid"
)

// MemoryPersister keeps the last saved copy of each entity in process memory.
// Used when no database is configured and in tests.
type MemoryPersister struct {
	mu       sync.Mutex
	events   map[uuid.UUID]models.Event
	seats    map[uuid.UUID]models.Seat
	bookings map[uuid.UUID]models.Booking
	payments map[uuid.UUID]models.Payment
	saves    int
	failNext error
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		events:   make(map[uuid.UUID]models.Event),
		seats:    make(map[uuid.UUID]models.Seat),
		bookings: make(map[uuid.UUID]models.Booking),
		payments: make(map[uuid.UUID]models.Payment),
	}
}

func (m *MemoryPersister) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &Snapshot{}
	for _, e := range m.events {
		snap.Events = append(snap.Events, *e.Clone())
	}
	for _, s := range m.seats {
		snap.Seats = append(snap.Seats, *s.Clone())
	}
	for _, b := range m.bookings {
		snap.Bookings = append(snap.Bookings, *b.Clone())
	}
	for _, p := range m.payments {
		snap.Payments = append(snap.Payments, *p.Clone())
	}
	return snap, nil
}

func (m *MemoryPersister) Save(_ context.Context, changes *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	for i := range changes.Events {
		m.events[changes.Events[i].ID] = *changes.Events[i].Clone()
	}
	for i := range changes.Seats {
		m.seats[changes.Seats[i].ID] = *changes.Seats[i].Clone()
	}
	for i := range changes.Bookings {
		m.bookings[changes.Bookings[i].ID] = *changes.Bookings[i].Clone()
	}
	for i := range changes.Payments {
		m.payments[changes.Payments[i].ID] = *changes.Payments[i].Clone()
	}
	m.saves++
	return nil
}

// FailNextSave makes the next Save return err without storing anything
func (m *MemoryPersister) FailNextSave(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// Saves returns how many successful Save calls happened
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// SavedSeat returns the persisted copy of a seat
func (m *MemoryPersister) SavedSeat(id uuid.UUID) (models.Seat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[id]
	return s, ok
}

// SavedBooking returns the persisted copy of a booking
func (m *MemoryPersister) SavedBooking(id uuid.UUID) (models.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	return b, ok
}
