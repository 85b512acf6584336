package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event is the bookable occasion. AvailableSeats is a reporting counter,
// seat statuses are what locking decisions read.
type Event struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Title          string          `gorm:"not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	TicketType     TicketType      `gorm:"type:varchar(20);index;not null" json:"ticket_type"`
	Venue          string          `gorm:"not null" json:"venue"`
	StartsAt       time.Time       `gorm:"index;not null" json:"starts_at"`
	EndsAt         time.Time       `gorm:"not null" json:"ends_at"`
	BasePrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	TotalSeats     int             `gorm:"not null" json:"total_seats"`
	AvailableSeats int             `gorm:"not null" json:"available_seats"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;index;not null" json:"created_by"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) Clone() *Event {
	c := *e
	return &c
}
