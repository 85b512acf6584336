package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/constants"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/cache"
	"ticketbooker/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateEvent(ctx context.Context, principal users.Principal, req CreateEventRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, principal users.Principal, req UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID, principal users.Principal) error
	GetEventStats(ctx context.Context, id uuid.UUID) (*EventStats, error)
}

type service struct {
	store        *store.Store
	clock        clock.Clock
	validate     *validator.Validate
	cacheService cache.Service
	statsTTL     time.Duration
	log          *logger.Logger
}

func NewService(st *store.Store, clk clock.Clock, statsTTL time.Duration) Service {
	if statsTTL <= 0 {
		statsTTL = constants.TTL_EVENT_STATS
	}

	// Same tags gin binds with, so callers outside HTTP get identical rules
	v := validator.New()
	v.SetTagName("binding")

	return &service{
		store:    st,
		clock:    clk,
		validate: v,
		statsTTL: statsTTL,
		log:      logger.GetDefault().WithComponent("events"),
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// Cache helper methods
func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildEventStatsKey(eventID.String())); err != nil {
		s.log.WarnWithContext(ctx, "Failed to invalidate event cache", map[string]interface{}{
			"event_id": eventID.String(),
			"error":    err.Error(),
		})
	}
}

func (s *service) validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return apperrors.Validation("invalid event: %s", strings.Join(fields, "; "))
	}
	return apperrors.Validation("invalid event: %v", err)
}

func (s *service) CreateEvent(ctx context.Context, principal users.Principal, req CreateEventRequest) (*models.Event, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.Forbidden("only admins can create events")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, s.validationError(err)
	}
	if !req.StartsAt.Before(req.EndsAt) {
		return nil, apperrors.Validation("start time must be before end time")
	}
	if req.BasePrice.IsNegative() {
		return nil, apperrors.Validation("base price cannot be negative")
	}
	if req.SeatLayout != nil && req.SeatLayout.Rows*req.SeatLayout.SeatsPerRow > req.TotalSeats {
		return nil, apperrors.Validation("seat layout of %dx%d exceeds total seats %d",
			req.SeatLayout.Rows, req.SeatLayout.SeatsPerRow, req.TotalSeats)
	}

	now := s.clock.Now()
	event := &models.Event{
		ID:             uuid.New(),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		TicketType:     models.TicketType(req.TicketType),
		Venue:          strings.TrimSpace(req.Venue),
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		BasePrice:      req.BasePrice,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		CreatedBy:      principal.UserID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	seatCount := 0
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		tx.PutEvent(event)
		if req.SeatLayout != nil {
			seatCount = putSeatGrid(tx, event, *req.SeatLayout, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoWithContext(ctx, "Event created", map[string]interface{}{
		"event_id":    event.ID.String(),
		"created_by":  principal.UserID.String(),
		"total_seats": event.TotalSeats,
		"seats_added": seatCount,
	})
	return event.Clone(), nil
}

// putSeatGrid adds rows x seatsPerRow AVAILABLE seats labelled A1, A2, ...
func putSeatGrid(tx *store.Tx, event *models.Event, layout SeatLayout, now time.Time) int {
	n := 0
	for r := 0; r < layout.Rows; r++ {
		row := string(rune('A' + r))
		for c := 1; c <= layout.SeatsPerRow; c++ {
			tx.PutSeat(&models.Seat{
				ID:         uuid.New(),
				EventID:    event.ID,
				SeatNumber: fmt.Sprintf("%s%d", row, c),
				Row:        row,
				Column:     c,
				Status:     models.SeatAvailable,
				Price:      event.BasePrice,
				CreatedAt:  now,
				UpdatedAt:  now,
			})
			n++
		}
	}
	return n
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var out *models.Event
	err := s.store.View(func(tx *store.Tx) error {
		event, ok := tx.Event(id)
		if !ok {
			return apperrors.NotFound("event %s not found", id)
		}
		out = event.Clone()
		return nil
	})
	return out, err
}

// ListEvents returns active events matching filter, soonest first
func (s *service) ListEvents(ctx context.Context, filter ListFilter) ([]models.Event, error) {
	venue := strings.ToLower(strings.TrimSpace(filter.Venue))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	var out []models.Event
	err := s.store.View(func(tx *store.Tx) error {
		matched := tx.Events(func(e *models.Event) bool {
			if !e.IsActive {
				return false
			}
			if filter.TicketType != "" && string(e.TicketType) != filter.TicketType {
				return false
			}
			if venue != "" && !strings.Contains(strings.ToLower(e.Venue), venue) {
				return false
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(e.Title), search) &&
				!strings.Contains(strings.ToLower(e.Description), search) &&
				!strings.Contains(strings.ToLower(e.Venue), search) {
				return false
			}
			return true
		})
		out = make([]models.Event, 0, len(matched))
		for _, e := range matched {
			out = append(out, *e.Clone())
		}
		return nil
	})
	return out, err
}

// UpdateEvent edits descriptive fields. Capacity is fixed once seats exist.
func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, principal users.Principal, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, s.validationError(err)
	}
	if req.BasePrice != nil && req.BasePrice.IsNegative() {
		return nil, apperrors.Validation("base price cannot be negative")
	}

	var out *models.Event
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		event, err := s.ownedEvent(tx, id, principal, "update")
		if err != nil {
			return err
		}

		startsAt, endsAt := event.StartsAt, event.EndsAt
		if req.StartsAt != nil {
			startsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			endsAt = *req.EndsAt
		}
		if !startsAt.Before(endsAt) {
			return apperrors.Validation("start time must be before end time")
		}

		if req.Title != nil {
			event.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Venue != nil {
			event.Venue = strings.TrimSpace(*req.Venue)
		}
		if req.BasePrice != nil {
			event.BasePrice = *req.BasePrice
		}
		event.StartsAt, event.EndsAt = startsAt, endsAt
		event.UpdatedAt = s.clock.Now()
		tx.PutEvent(event)

		out = event.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateEventCache(ctx, id)
	return out, nil
}

// DeleteEvent deactivates the event. Events with live bookings stay.
func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID, principal users.Principal) error {
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		event, err := s.ownedEvent(tx, id, principal, "delete")
		if err != nil {
			return err
		}
		if !event.IsActive {
			return nil
		}

		live := tx.Bookings(func(b *models.Booking) bool {
			return b.EventID == id && b.Status.IsActive()
		})
		if len(live) > 0 {
			return apperrors.InvalidState("event has %d active bookings", len(live))
		}

		event.IsActive = false
		event.UpdatedAt = s.clock.Now()
		tx.PutEvent(event)
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateEventCache(ctx, id)
	s.log.InfoWithContext(ctx, "Event deactivated", map[string]interface{}{
		"event_id": id.String(),
		"user_id":  principal.UserID.String(),
	})
	return nil
}

func (s *service) ownedEvent(tx *store.Tx, id uuid.UUID, principal users.Principal, action string) (*models.Event, error) {
	event, ok := tx.Event(id)
	if !ok {
		return nil, apperrors.NotFound("event %s not found", id)
	}
	if !principal.IsAdmin() || event.CreatedBy != principal.UserID {
		return nil, apperrors.Forbidden("not authorized to %s this event", action)
	}
	return event, nil
}

// GetEventStats counts seats by status. Results are cached for a short TTL,
// so counts may trail the store by up to that long.
func (s *service) GetEventStats(ctx context.Context, id uuid.UUID) (*EventStats, error) {
	cacheKey := constants.BuildEventStatsKey(id.String())

	var cached EventStats
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	stats := &EventStats{EventID: id.String()}
	err := s.store.View(func(tx *store.Tx) error {
		event, ok := tx.Event(id)
		if !ok {
			return apperrors.NotFound("event %s not found", id)
		}
		stats.TotalSeats = event.TotalSeats
		stats.AvailableSeats = event.AvailableSeats
		for _, seat := range tx.SeatsForEvent(id) {
			switch seat.Status {
			case models.SeatBooked:
				stats.BookedSeats++
			case models.SeatLocked:
				stats.LockedSeats++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.setCache(ctx, cacheKey, stats, s.statsTTL); err != nil {
		s.log.WarnWithContext(ctx, "Failed to cache event stats", map[string]interface{}{
			"event_id": id.String(),
			"error":    err.Error(),
		})
	}
	return stats, nil
}
