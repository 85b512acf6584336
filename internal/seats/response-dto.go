package seats

import (
	"time"

	"ticketbooker/internal/models"

	"github.com/shopspring/decimal"
)

type SeatResponse struct {
	ID          string          `json:"id"`
	EventID     string          `json:"event_id"`
	SeatNumber  string          `json:"seat_number"`
	Row         string          `json:"row"`
	Column      int             `json:"column"`
	Status      string          `json:"status"`
	Price       decimal.Decimal `json:"price"`
	LockedUntil *time.Time      `json:"locked_until,omitempty"`
}

// LockResult is returned by a successful LockSeats
type LockResult struct {
	EventID     string         `json:"event_id"`
	SeatIDs     []string       `json:"seat_ids"`
	LockedUntil time.Time      `json:"locked_until"`
	Seats       []SeatResponse `json:"seats"`
}

type UnlockResult struct {
	UnlockedCount int `json:"unlocked_count"`
}

func ToSeatResponse(s *models.Seat) SeatResponse {
	return SeatResponse{
		ID:          s.ID.String(),
		EventID:     s.EventID.String(),
		SeatNumber:  s.SeatNumber,
		Row:         s.Row,
		Column:      s.Column,
		Status:      s.Status.String(),
		Price:       s.Price,
		LockedUntil: s.LockedUntil,
	}
}

func ToSeatResponses(list []models.Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(list))
	for i := range list {
		out = append(out, ToSeatResponse(&list[i]))
	}
	return out
}
