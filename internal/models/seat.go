package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Seat is one allocatable unit within an event
type Seat struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	EventID     uuid.UUID       `gorm:"type:uuid;index;not null;uniqueIndex:idx_event_seat_number" json:"event_id"`
	SeatNumber  string          `gorm:"not null;uniqueIndex:idx_event_seat_number" json:"seat_number"`
	Row         string          `gorm:"not null" json:"row"`
	Column      int             `gorm:"not null" json:"column"`
	Status      SeatStatus      `gorm:"type:varchar(20);index;not null;default:'AVAILABLE'" json:"status"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	LockedBy    *uuid.UUID      `gorm:"type:uuid" json:"locked_by,omitempty"`
	LockedUntil *time.Time      `json:"locked_until,omitempty"`
	BookedBy    *uuid.UUID      `gorm:"type:uuid" json:"booked_by,omitempty"`
	BookingID   *uuid.UUID      `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Seat) TableName() string {
	return "seats"
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatAvailable
}

// IsLockedBy reports whether the seat is LOCKED by holderID
func (s *Seat) IsLockedBy(holderID uuid.UUID) bool {
	return s.Status == SeatLocked && s.LockedBy != nil && *s.LockedBy == holderID
}

// LockLapsed reports whether a LOCKED seat's hold window has passed at now
func (s *Seat) LockLapsed(now time.Time) bool {
	return s.Status == SeatLocked && s.LockedUntil != nil && !s.LockedUntil.After(now)
}

// Lock moves the seat to LOCKED for holderID until the given instant
func (s *Seat) Lock(holderID uuid.UUID, until, now time.Time) {
	s.Status = SeatLocked
	s.LockedBy = &holderID
	s.LockedUntil = &until
	s.BookedBy = nil
	s.BookingID = nil
	s.UpdatedAt = now
}

// Book promotes a locked seat to BOOKED for the given booking
func (s *Seat) Book(holderID, bookingID uuid.UUID, now time.Time) {
	s.Status = SeatBooked
	s.LockedBy = nil
	s.LockedUntil = nil
	s.BookedBy = &holderID
	s.BookingID = &bookingID
	s.UpdatedAt = now
}

// Release returns the seat to AVAILABLE and clears all holder fields
func (s *Seat) Release(now time.Time) {
	s.Status = SeatAvailable
	s.LockedBy = nil
	s.LockedUntil = nil
	s.BookedBy = nil
	s.BookingID = nil
	s.UpdatedAt = now
}

// CheckInvariant verifies that exactly the fields matching the status are populated
func (s *Seat) CheckInvariant() error {
	lockSet := s.LockedBy != nil && s.LockedUntil != nil
	lockClear := s.LockedBy == nil && s.LockedUntil == nil
	bookSet := s.BookedBy != nil && s.BookingID != nil
	bookClear := s.BookedBy == nil && s.BookingID == nil

	switch s.Status {
	case SeatAvailable:
		if !lockClear || !bookClear {
			return fmt.Errorf("seat %s: AVAILABLE with holder fields set", s.ID)
		}
	case SeatLocked:
		if !lockSet || !bookClear {
			return fmt.Errorf("seat %s: LOCKED requires lock fields only", s.ID)
		}
	case SeatBooked:
		if !bookSet || !lockClear {
			return fmt.Errorf("seat %s: BOOKED requires booking fields only", s.ID)
		}
	default:
		return fmt.Errorf("seat %s: unknown status %q", s.ID, s.Status)
	}
	return nil
}

// Clone returns a deep copy safe to hand outside the store
func (s *Seat) Clone() *Seat {
	c := *s
	c.LockedBy = cloneUUID(s.LockedBy)
	c.LockedUntil = cloneTime(s.LockedUntil)
	c.BookedBy = cloneUUID(s.BookedBy)
	c.BookingID = cloneUUID(s.BookingID)
	return &c
}

func cloneUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
