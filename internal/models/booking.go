package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Booking is one user's reservation of a set of seats for one event
type Booking struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	EventID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"event_id"`
	SeatIDs     []uuid.UUID     `gorm:"serializer:json;type:jsonb;not null" json:"seat_ids"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	Status      BookingStatus   `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	BookingRef  string          `gorm:"uniqueIndex;not null" json:"booking_ref"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ExpiresAt   time.Time       `gorm:"index;not null" json:"expires_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	ExpiredAt   *time.Time      `json:"expired_at,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPastExpiry reports whether the reservation deadline has passed at now
func (b *Booking) IsPastExpiry(now time.Time) bool {
	return now.After(b.ExpiresAt)
}

// HasSeat reports whether seatID is part of this booking
func (b *Booking) HasSeat(seatID uuid.UUID) bool {
	for _, id := range b.SeatIDs {
		if id == seatID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand outside the store
func (b *Booking) Clone() *Booking {
	c := *b
	c.SeatIDs = append([]uuid.UUID(nil), b.SeatIDs...)
	c.ConfirmedAt = cloneTime(b.ConfirmedAt)
	c.CancelledAt = cloneTime(b.CancelledAt)
	c.ExpiredAt = cloneTime(b.ExpiredAt)
	return &c
}
