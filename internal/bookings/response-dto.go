package bookings

import (
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/seats"

	"github.com/shopspring/decimal"
)

type BookingResponse struct {
	ID          string          `json:"id"`
	BookingRef  string          `json:"booking_ref"`
	UserID      string          `json:"user_id"`
	EventID     string          `json:"event_id"`
	SeatIDs     []string        `json:"seat_ids"`
	TotalSeats  int             `json:"total_seats"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
	ConfirmedAt *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
	ExpiredAt   *time.Time      `json:"expired_at,omitempty"`
}

type BookingDetailsResponse struct {
	BookingResponse
	Event *EventSummary        `json:"event,omitempty"`
	Seats []seats.SeatResponse `json:"seats"`
}

type EventSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Venue    string    `json:"venue"`
	StartsAt time.Time `json:"starts_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Count    int               `json:"count"`
	Total    int               `json:"total"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	seatIDs := make([]string, 0, len(b.SeatIDs))
	for _, id := range b.SeatIDs {
		seatIDs = append(seatIDs, id.String())
	}
	return BookingResponse{
		ID:          b.ID.String(),
		BookingRef:  b.BookingRef,
		UserID:      b.UserID.String(),
		EventID:     b.EventID.String(),
		SeatIDs:     seatIDs,
		TotalSeats:  len(b.SeatIDs),
		TotalPrice:  b.TotalPrice,
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt,
		ExpiresAt:   b.ExpiresAt,
		ConfirmedAt: b.ConfirmedAt,
		CancelledAt: b.CancelledAt,
		ExpiredAt:   b.ExpiredAt,
	}
}

func ToBookingDetailsResponse(d *BookingDetails) BookingDetailsResponse {
	resp := BookingDetailsResponse{
		BookingResponse: ToBookingResponse(&d.Booking),
		Seats:           seats.ToSeatResponses(d.Seats),
	}
	if d.Event != nil {
		resp.Event = &EventSummary{
			ID:       d.Event.ID.String(),
			Title:    d.Event.Title,
			Venue:    d.Event.Venue,
			StartsAt: d.Event.StartsAt,
		}
	}
	return resp
}

// ToBookingListResponse pages list by limit and offset
func ToBookingListResponse(list []models.Booking, limit, offset int) BookingListResponse {
	total := len(list)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}

	page := make([]BookingResponse, 0, end-offset)
	for i := offset; i < end; i++ {
		page = append(page, ToBookingResponse(&list[i]))
	}
	return BookingListResponse{
		Bookings: page,
		Count:    len(page),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
}
