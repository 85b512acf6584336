package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a booking lifecycle transition
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingExpired   EventType = "booking.expired"
	EventPaymentSucceeded EventType = "payment.succeeded"
	EventPaymentFailed    EventType = "payment.failed"
)

// BookingEvent is the message published after a committed transition.
// Consumers may see it more than once; ID is stable for deduplication.
type BookingEvent struct {
	ID         uuid.UUID        `json:"id"`
	Type       EventType        `json:"type"`
	BookingID  uuid.UUID        `json:"booking_id"`
	EventID    uuid.UUID        `json:"event_id"`
	UserID     uuid.UUID        `json:"user_id"`
	BookingRef string           `json:"booking_ref,omitempty"`
	SeatCount  int              `json:"seat_count"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	PaymentID  *uuid.UUID       `json:"payment_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewBookingEvent(eventType EventType, bookingID, eventID, userID uuid.UUID, occurredAt time.Time) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		EventID:    eventID,
		UserID:     userID,
		OccurredAt: occurredAt,
	}
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey keeps every message of one booking on the same partition
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID.String()
}
