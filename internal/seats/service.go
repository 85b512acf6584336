package seats

import (
	"context"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"

	"github.com/google/uuid"
)

// Service is the seat inventory manager
type Service interface {
	SetHoldProtector(p HoldProtector)

	LockSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, holderID uuid.UUID, holdDuration time.Duration) (*LockResult, error)
	UnlockSeats(ctx context.Context, seatIDs []uuid.UUID, holderID uuid.UUID) (*UnlockResult, error)
	ExpireLockedSeats(ctx context.Context) (int, error)

	ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]models.Seat, error)
	ListEventSeats(ctx context.Context, eventID uuid.UUID) ([]models.Seat, error)
	GetSeat(ctx context.Context, seatID uuid.UUID) (*models.Seat, error)
	CreateSeats(ctx context.Context, eventID uuid.UUID, principal users.Principal, specs []SeatSpec) ([]models.Seat, error)
}

// HoldProtector names seats whose lapsed locks still back a live booking.
// The result maps seat ID to the holder the lock must belong to.
type HoldProtector interface {
	ProtectedSeats(tx *store.Tx) map[uuid.UUID]uuid.UUID
}

type service struct {
	store     *store.Store
	inventory *Inventory
	protector HoldProtector
	log       *logger.Logger
}

func NewService(st *store.Store, inventory *Inventory) Service {
	return &service{
		store:     st,
		inventory: inventory,
		log:       logger.GetDefault().WithComponent("seats"),
	}
}

// SetHoldProtector injects the booking-aware guard used by the orphan sweep
func (s *service) SetHoldProtector(p HoldProtector) {
	s.protector = p
}

func (s *service) LockSeats(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, holderID uuid.UUID, holdDuration time.Duration) (*LockResult, error) {
	var result *LockResult
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		event, ok := tx.Event(eventID)
		if !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		if !event.IsActive {
			return apperrors.InvalidState("event %s is no longer active", eventID)
		}
		until, locked, err := s.inventory.Lock(tx, eventID, seatIDs, holderID, holdDuration)
		if err != nil {
			return err
		}
		result = &LockResult{
			EventID:     eventID.String(),
			LockedUntil: until,
			SeatIDs:     make([]string, 0, len(locked)),
			Seats:       make([]SeatResponse, 0, len(locked)),
		}
		for _, seat := range locked {
			result.SeatIDs = append(result.SeatIDs, seat.ID.String())
			result.Seats = append(result.Seats, ToSeatResponse(seat.Clone()))
		}
		return nil
	})
	metrics.SeatOperation("lock", len(seatIDs), err)
	if err != nil {
		return nil, err
	}

	s.log.LogSeatsLocked(ctx, eventID.String(), holderID.String(), len(seatIDs), result.LockedUntil)
	return result, nil
}

func (s *service) UnlockSeats(ctx context.Context, seatIDs []uuid.UUID, holderID uuid.UUID) (*UnlockResult, error) {
	if len(seatIDs) == 0 {
		return nil, apperrors.Validation("at least one seat is required")
	}

	var released int
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		released = s.inventory.Unlock(tx, seatIDs, holderID)
		return nil
	})
	metrics.SeatOperation("unlock", released, err)
	if err != nil {
		return nil, err
	}
	return &UnlockResult{UnlockedCount: released}, nil
}

// ExpireLockedSeats releases lapsed locks that no pending booking still claims
func (s *service) ExpireLockedSeats(ctx context.Context) (int, error) {
	var released []*models.Seat
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		var protected map[uuid.UUID]uuid.UUID
		if s.protector != nil {
			protected = s.protector.ProtectedSeats(tx)
		}
		released = s.inventory.ExpireLapsed(tx, protected)
		return nil
	})
	metrics.SeatOperation("expire", len(released), err)
	if err != nil {
		return 0, err
	}

	if len(released) > 0 {
		s.log.InfoWithContext(ctx, "Released lapsed seat locks", map[string]interface{}{
			"count": len(released),
		})
	}
	return len(released), nil
}

func (s *service) ListAvailableSeats(ctx context.Context, eventID uuid.UUID) ([]models.Seat, error) {
	return s.listSeats(eventID, func(seat *models.Seat) bool { return seat.IsAvailable() })
}

func (s *service) ListEventSeats(ctx context.Context, eventID uuid.UUID) ([]models.Seat, error) {
	return s.listSeats(eventID, nil)
}

func (s *service) listSeats(eventID uuid.UUID, keep func(*models.Seat) bool) ([]models.Seat, error) {
	var out []models.Seat
	err := s.store.View(func(tx *store.Tx) error {
		if _, ok := tx.Event(eventID); !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		seats := tx.SeatsForEvent(eventID)
		out = make([]models.Seat, 0, len(seats))
		for _, seat := range seats {
			if keep == nil || keep(seat) {
				out = append(out, *seat.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (s *service) GetSeat(ctx context.Context, seatID uuid.UUID) (*models.Seat, error) {
	var out *models.Seat
	err := s.store.View(func(tx *store.Tx) error {
		seat, ok := tx.Seat(seatID)
		if !ok {
			return apperrors.NotFound("seat %s not found", seatID)
		}
		out = seat.Clone()
		return nil
	})
	return out, err
}

// CreateSeats adds AVAILABLE seats to an event. Only the admin who created
// the event may do this, and the event's capacity caps the total.
func (s *service) CreateSeats(ctx context.Context, eventID uuid.UUID, principal users.Principal, specs []SeatSpec) ([]models.Seat, error) {
	if len(specs) == 0 {
		return nil, apperrors.Validation("seats data is required")
	}

	var created []models.Seat
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		event, ok := tx.Event(eventID)
		if !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		if !principal.IsAdmin() || event.CreatedBy != principal.UserID {
			return apperrors.Forbidden("not authorized to create seats for this event")
		}

		existing := tx.SeatsForEvent(eventID)
		if len(existing)+len(specs) > event.TotalSeats {
			return apperrors.Validation("number of seats exceeds event capacity of %d", event.TotalSeats)
		}

		taken := make(map[string]struct{}, len(existing)+len(specs))
		for _, seat := range existing {
			taken[seat.SeatNumber] = struct{}{}
		}
		for _, spec := range specs {
			if spec.SeatNumber == "" {
				return apperrors.Validation("seat number is required")
			}
			if spec.Price.IsNegative() {
				return apperrors.Validation("seat %s has a negative price", spec.SeatNumber)
			}
			if _, dup := taken[spec.SeatNumber]; dup {
				return apperrors.Validation("seat number %s already exists for this event", spec.SeatNumber)
			}
			taken[spec.SeatNumber] = struct{}{}
		}

		now := s.inventory.Now()
		created = make([]models.Seat, 0, len(specs))
		for _, spec := range specs {
			price := spec.Price
			if price.IsZero() {
				price = event.BasePrice
			}
			seat := &models.Seat{
				ID:         uuid.New(),
				EventID:    eventID,
				SeatNumber: spec.SeatNumber,
				Row:        spec.Row,
				Column:     spec.Column,
				Status:     models.SeatAvailable,
				Price:      price,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			tx.PutSeat(seat)
			created = append(created, *seat.Clone())
		}
		return nil
	})
	metrics.SeatOperation("create", len(created), err)
	if err != nil {
		return nil, err
	}
	return created, nil
}
