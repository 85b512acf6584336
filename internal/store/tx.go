package store

import (
	"sort"

	"ticketbooker/internal/models"

	"github.com/google/uuid"
)

// Tx is the view of the store handed to View and Update callbacks. Returned
// pointers are live; clone before letting them escape the callback.
type Tx struct {
	store    *Store
	writable bool
	dirty    *dirtySet
}

func (tx *Tx) mustWrite() {
	if !tx.writable {
		panic("store: write attempted in read-only transaction")
	}
}

func (tx *Tx) Event(id uuid.UUID) (*models.Event, bool) {
	e, ok := tx.store.events[id]
	return e, ok
}

// Events returns all events matching keep, or every event when keep is nil
func (tx *Tx) Events(keep func(*models.Event) bool) []*models.Event {
	out := make([]*models.Event, 0)
	for _, e := range tx.store.events {
		if keep == nil || keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out
}

func (tx *Tx) PutEvent(e *models.Event) {
	tx.mustWrite()
	tx.store.events[e.ID] = e
	tx.dirty.events[e.ID] = struct{}{}
}

func (tx *Tx) Seat(id uuid.UUID) (*models.Seat, bool) {
	s, ok := tx.store.seats[id]
	return s, ok
}

// SeatsForEvent returns the event's seats in creation order
func (tx *Tx) SeatsForEvent(eventID uuid.UUID) []*models.Seat {
	ids := tx.store.seatsByEvent[eventID]
	out := make([]*models.Seat, 0, len(ids))
	for _, id := range ids {
		if s, ok := tx.store.seats[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Seats returns all seats matching keep across every event
func (tx *Tx) Seats(keep func(*models.Seat) bool) []*models.Seat {
	out := make([]*models.Seat, 0)
	for _, s := range tx.store.seats {
		if keep == nil || keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}

// PutSeat inserts a new seat or records a mutation of an existing one
func (tx *Tx) PutSeat(s *models.Seat) {
	tx.mustWrite()
	if _, exists := tx.store.seats[s.ID]; !exists {
		tx.store.seatsByEvent[s.EventID] = append(tx.store.seatsByEvent[s.EventID], s.ID)
	}
	tx.store.seats[s.ID] = s
	tx.dirty.seats[s.ID] = struct{}{}
}

func (tx *Tx) Booking(id uuid.UUID) (*models.Booking, bool) {
	b, ok := tx.store.bookings[id]
	return b, ok
}

// Bookings returns bookings matching keep, newest first
func (tx *Tx) Bookings(keep func(*models.Booking) bool) []*models.Booking {
	out := make([]*models.Booking, 0)
	for _, b := range tx.store.bookings {
		if keep == nil || keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// BookingRefTaken reports whether any booking already uses ref
func (tx *Tx) BookingRefTaken(ref string) bool {
	_, ok := tx.store.bookingRefs[ref]
	return ok
}

func (tx *Tx) PutBooking(b *models.Booking) {
	tx.mustWrite()
	tx.store.bookings[b.ID] = b
	if b.BookingRef != "" {
		tx.store.bookingRefs[b.BookingRef] = b.ID
	}
	tx.dirty.bookings[b.ID] = struct{}{}
}

func (tx *Tx) Payment(id uuid.UUID) (*models.Payment, bool) {
	p, ok := tx.store.payments[id]
	return p, ok
}

// Payments returns payments matching keep, newest first
func (tx *Tx) Payments(keep func(*models.Payment) bool) []*models.Payment {
	out := make([]*models.Payment, 0)
	for _, p := range tx.store.payments {
		if keep == nil || keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (tx *Tx) PutPayment(p *models.Payment) {
	tx.mustWrite()
	tx.store.payments[p.ID] = p
	tx.dirty.payments[p.ID] = struct{}{}
}
