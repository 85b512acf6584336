package events

import (
	"time"

	"ticketbooker/internal/models"

	"github.com/shopspring/decimal"
)

type EventResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	TicketType     string          `json:"ticket_type"`
	Venue          string          `json:"venue"`
	StartsAt       time.Time       `json:"starts_at"`
	EndsAt         time.Time       `json:"ends_at"`
	BasePrice      decimal.Decimal `json:"base_price"`
	TotalSeats     int             `json:"total_seats"`
	AvailableSeats int             `json:"available_seats"`
	IsActive       bool            `json:"is_active"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func ToEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:             e.ID.String(),
		Title:          e.Title,
		Description:    e.Description,
		TicketType:     string(e.TicketType),
		Venue:          e.Venue,
		StartsAt:       e.StartsAt,
		EndsAt:         e.EndsAt,
		BasePrice:      e.BasePrice,
		TotalSeats:     e.TotalSeats,
		AvailableSeats: e.AvailableSeats,
		IsActive:       e.IsActive,
		CreatedBy:      e.CreatedBy.String(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToPaginatedEvents slices one page out of list. page is 1-based.
func ToPaginatedEvents(list []models.Event, page, limit int) PaginatedEvents {
	total := len(list)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := PaginatedEvents{
		Events:     make([]EventResponse, 0, end-start),
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
	for i := start; i < end; i++ {
		out.Events = append(out.Events, ToEventResponse(&list[i]))
	}
	return out
}
