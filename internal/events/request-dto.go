package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateEventRequest struct {
	Title       string          `json:"title" binding:"required,min=3,max=255"`
	Description string          `json:"description" binding:"max=2000"`
	TicketType  string          `json:"ticket_type" binding:"required,oneof=MOVIE BUS TRAIN EVENT"`
	Venue       string          `json:"venue" binding:"required,min=2,max=255"`
	StartsAt    time.Time       `json:"starts_at" binding:"required"`
	EndsAt      time.Time       `json:"ends_at" binding:"required,gtfield=StartsAt"`
	BasePrice   decimal.Decimal `json:"base_price"`
	TotalSeats  int             `json:"total_seats" binding:"required,min=1,max=100000"`
	SeatLayout  *SeatLayout     `json:"seat_layout" binding:"omitempty"`
}

// SeatLayout asks CreateEvent to generate a rows x seatsPerRow grid labelled
// A1, A2, ... at the event's base price
type SeatLayout struct {
	Rows        int `json:"rows" binding:"required,min=1,max=26"`
	SeatsPerRow int `json:"seats_per_row" binding:"required,min=1,max=500"`
}

type UpdateEventRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=3,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Venue       *string          `json:"venue" binding:"omitempty,min=2,max=255"`
	StartsAt    *time.Time       `json:"starts_at"`
	EndsAt      *time.Time       `json:"ends_at"`
	BasePrice   *decimal.Decimal `json:"base_price"`
}

type EventListQuery struct {
	TicketType string `form:"ticket_type" binding:"omitempty,oneof=MOVIE BUS TRAIN EVENT"`
	Venue      string `form:"venue"`
	Search     string `form:"search"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
