package store

import (
	"context"
	"fmt"
	"sync"

	"ticketbooker/internal/models"
	"ticketbooker/pkg/logger"

	"github.com/google/uuid"
)

// Snapshot is a set of entities moving between the store and its persister.
// On Load it is the full entity set; on Save it holds only mutated entities.
type Snapshot struct {
	Events   []models.Event
	Seats    []models.Seat
	Bookings []models.Booking
	Payments []models.Payment
}

// Len returns the total number of entities in the snapshot
func (s *Snapshot) Len() int {
	return len(s.Events) + len(s.Seats) + len(s.Bookings) + len(s.Payments)
}

// Persister is the durable collaborator behind the in-memory store
type Persister interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, changes *Snapshot) error
}

// Store is the single authoritative copy of all entities. Every read and
// write goes through View or Update, which share one RWMutex.
type Store struct {
	mu           sync.RWMutex
	events       map[uuid.UUID]*models.Event
	seats        map[uuid.UUID]*models.Seat
	seatsByEvent map[uuid.UUID][]uuid.UUID
	bookings     map[uuid.UUID]*models.Booking
	bookingRefs  map[string]uuid.UUID
	payments     map[uuid.UUID]*models.Payment
	dirty        *dirtySet

	flushMu   sync.Mutex
	persister Persister
	log       *logger.Logger
}

type Option func(*Store)

// WithLogger overrides the default logger
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates an empty store. A nil persister keeps everything in memory.
func New(persister Persister, opts ...Option) *Store {
	s := &Store{
		events:       make(map[uuid.UUID]*models.Event),
		seats:        make(map[uuid.UUID]*models.Seat),
		seatsByEvent: make(map[uuid.UUID][]uuid.UUID),
		bookings:     make(map[uuid.UUID]*models.Booking),
		bookingRefs:  make(map[string]uuid.UUID),
		payments:     make(map[uuid.UUID]*models.Payment),
		dirty:        newDirtySet(),
		persister:    persister,
		log:          logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persister's full entity set
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}

	snap, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load entities: %w", err)
	}

	for i := range snap.Seats {
		if err := snap.Seats[i].CheckInvariant(); err != nil {
			return fmt.Errorf("refusing to load inconsistent seat: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make(map[uuid.UUID]*models.Event, len(snap.Events))
	s.seats = make(map[uuid.UUID]*models.Seat, len(snap.Seats))
	s.seatsByEvent = make(map[uuid.UUID][]uuid.UUID)
	s.bookings = make(map[uuid.UUID]*models.Booking, len(snap.Bookings))
	s.bookingRefs = make(map[string]uuid.UUID, len(snap.Bookings))
	s.payments = make(map[uuid.UUID]*models.Payment, len(snap.Payments))
	s.dirty = newDirtySet()

	for i := range snap.Events {
		e := snap.Events[i]
		s.events[e.ID] = &e
	}
	for i := range snap.Seats {
		seat := snap.Seats[i]
		s.seats[seat.ID] = &seat
		s.seatsByEvent[seat.EventID] = append(s.seatsByEvent[seat.EventID], seat.ID)
	}
	for i := range snap.Bookings {
		b := snap.Bookings[i]
		s.bookings[b.ID] = &b
		if b.BookingRef != "" {
			s.bookingRefs[b.BookingRef] = b.ID
		}
	}
	for i := range snap.Payments {
		p := snap.Payments[i]
		s.payments[p.ID] = &p
	}

	s.log.InfoWithContext(ctx, "Entity store loaded", map[string]interface{}{
		"events":   len(s.events),
		"seats":    len(s.seats),
		"bookings": len(s.bookings),
		"payments": len(s.payments),
	})
	return nil
}

// View runs fn under the read lock. fn must not retain entity pointers.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{store: s})
}

// Update runs fn under the write lock. fn must validate everything before
// mutating anything. Entities touched through Put* are flushed to the
// persister after the lock is released.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	tx := &Tx{store: s, writable: true, dirty: newDirtySet()}
	err := s.runLocked(tx, fn)

	if !tx.dirty.empty() {
		if flushErr := s.Flush(ctx); flushErr != nil {
			s.log.ErrorWithContext(ctx, "Entity store flush failed, will retry", flushErr, nil)
		}
	}
	return err
}

// runLocked holds the write lock for fn only. The lock is released even
// when fn panics.
func (s *Store) runLocked(tx *Tx, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer func() {
		s.dirty.merge(tx.dirty)
		s.mu.Unlock()
	}()
	return fn(tx)
}

// Flush writes the current state of every dirty entity to the persister.
// Flushes are serialized and always read the latest state, so an older
// copy never overwrites a newer one.
func (s *Store) Flush(ctx context.Context) error {
	if s.persister == nil {
		s.mu.Lock()
		s.dirty = newDirtySet()
		s.mu.Unlock()
		return nil
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	pending := s.dirty
	s.dirty = newDirtySet()
	changes := s.collect(pending)
	s.mu.Unlock()

	if changes.Len() == 0 {
		return nil
	}

	if err := s.persister.Save(ctx, changes); err != nil {
		s.mu.Lock()
		s.dirty.merge(pending)
		s.mu.Unlock()
		return fmt.Errorf("failed to persist %d entities: %w", changes.Len(), err)
	}
	return nil
}

// PendingFlush reports how many entities are waiting to be persisted
func (s *Store) PendingFlush() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty.size()
}

// Close flushes anything still pending
func (s *Store) Close(ctx context.Context) error {
	return s.Flush(ctx)
}

func (s *Store) collect(d *dirtySet) *Snapshot {
	snap := &Snapshot{}
	for id := range d.events {
		if e, ok := s.events[id]; ok {
			snap.Events = append(snap.Events, *e.Clone())
		}
	}
	for id := range d.seats {
		if seat, ok := s.seats[id]; ok {
			snap.Seats = append(snap.Seats, *seat.Clone())
		}
	}
	for id := range d.bookings {
		if b, ok := s.bookings[id]; ok {
			snap.Bookings = append(snap.Bookings, *b.Clone())
		}
	}
	for id := range d.payments {
		if p, ok := s.payments[id]; ok {
			snap.Payments = append(snap.Payments, *p.Clone())
		}
	}
	return snap
}

type dirtySet struct {
	events   map[uuid.UUID]struct{}
	seats    map[uuid.UUID]struct{}
	bookings map[uuid.UUID]struct{}
	payments map[uuid.UUID]struct{}
}

func newDirtySet() *dirtySet {
	return &dirtySet{
		events:   make(map[uuid.UUID]struct{}),
		seats:    make(map[uuid.UUID]struct{}),
		bookings: make(map[uuid.UUID]struct{}),
		payments: make(map[uuid.UUID]struct{}),
	}
}

func (d *dirtySet) merge(other *dirtySet) {
	for id := range other.events {
		d.events[id] = struct{}{}
	}
	for id := range other.seats {
		d.seats[id] = struct{}{}
	}
	for id := range other.bookings {
		d.bookings[id] = struct{}{}
	}
	for id := range other.payments {
		d.payments[id] = struct{}{}
	}
}

func (d *dirtySet) size() int {
	return len(d.events) + len(d.seats) + len(d.bookings) + len(d.payments)
}

func (d *dirtySet) empty() bool {
	return d.size() == 0
}
