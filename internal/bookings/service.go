package bookings

import (
	"context"
	"fmt"

	"ticketbooker/internal/models"
	"ticketbooker/internal/notifications"
	"ticketbooker/internal/seats"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxRefAttempts = 5

// Service interface defines the contract for the booking lifecycle
type Service interface {
	SetPublisher(p notifications.Publisher)

	CreateBooking(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) (*models.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error)
	ExpireBookings(ctx context.Context) ([]models.Booking, error)

	GetBooking(ctx context.Context, bookingID uuid.UUID, principal users.Principal) (*BookingDetails, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, status models.BookingStatus) ([]models.Booking, error)
	ListEventBookings(ctx context.Context, eventID uuid.UUID, principal users.Principal) ([]models.Booking, error)

	// ProtectedSeats lets the seat sweep skip locks still backing a live booking
	ProtectedSeats(tx *store.Tx) map[uuid.UUID]uuid.UUID
}

type service struct {
	store     *store.Store
	inventory *seats.Inventory
	cfg       config.BookingConfig
	publisher notifications.Publisher
	log       *logger.Logger
}

func NewService(st *store.Store, inventory *seats.Inventory, cfg config.BookingConfig) Service {
	return &service{
		store:     st,
		inventory: inventory,
		cfg:       cfg,
		log:       logger.GetDefault().WithComponent("bookings"),
	}
}

// SetPublisher injects the booking event publisher
func (s *service) SetPublisher(p notifications.Publisher) {
	s.publisher = p
}

// CreateBooking locks the seats for userID and records a PENDING booking in
// the same store transaction
func (s *service) CreateBooking(ctx context.Context, eventID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	// ExpiresAt must land strictly after CreatedAt
	if s.cfg.ReservationWindow <= 0 {
		return nil, apperrors.New(apperrors.KindInternal, "reservation window must be positive, got %s", s.cfg.ReservationWindow)
	}
	if len(seatIDs) == 0 {
		return nil, apperrors.Validation("seat IDs are required")
	}
	if s.cfg.MaxSeatsPerBooking > 0 && len(seatIDs) > s.cfg.MaxSeatsPerBooking {
		return nil, apperrors.Validation("at most %d seats per booking", s.cfg.MaxSeatsPerBooking)
	}

	var created *models.Booking
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		event, ok := tx.Event(eventID)
		if !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		if !event.IsActive {
			return apperrors.InvalidState("event %s is not open for booking", eventID)
		}

		bookingRef, err := s.uniqueReference(tx)
		if err != nil {
			return err
		}

		_, locked, err := s.inventory.Lock(tx, eventID, seatIDs, userID, s.cfg.SeatHoldDuration)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, seat := range locked {
			total = total.Add(seat.Price)
		}

		now := s.inventory.Now()
		booking := &models.Booking{
			ID:         uuid.New(),
			UserID:     userID,
			EventID:    eventID,
			SeatIDs:    append([]uuid.UUID(nil), seatIDs...),
			TotalPrice: total,
			Status:     models.BookingPending,
			BookingRef: bookingRef,
			CreatedAt:  now,
			UpdatedAt:  now,
			ExpiresAt:  now.Add(s.cfg.ReservationWindow),
		}
		tx.PutBooking(booking)
		created = booking.Clone()
		return nil
	})
	metrics.SeatOperation("lock", len(seatIDs), err)
	if err != nil {
		return nil, err
	}

	metrics.BookingTransition(string(models.BookingPending))
	s.log.LogBookingCreated(ctx, created.ID.String(), eventID.String(), userID.String())
	s.publish(ctx, notifications.EventBookingCreated, created)
	return created, nil
}

// ConfirmBooking promotes the booking's locked seats to BOOKED
func (s *service) ConfirmBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error) {
	var confirmed *models.Booking
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		booking, err := s.ownedBooking(tx, bookingID, userID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingPending {
			return apperrors.InvalidState("booking is already %s", booking.Status)
		}

		now := s.inventory.Now()
		// a lapsed deadline wins even when the sweep has not run yet
		if booking.IsPastExpiry(now) {
			return apperrors.New(apperrors.KindBookingExpired, "booking %s has expired", booking.BookingRef)
		}

		if _, err := s.inventory.Book(tx, booking.EventID, booking.SeatIDs, userID, booking.ID); err != nil {
			return err
		}

		booking.Status = models.BookingConfirmed
		booking.ConfirmedAt = &now
		booking.UpdatedAt = now
		tx.PutBooking(booking)
		confirmed = booking.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransition(string(models.BookingConfirmed))
	s.log.LogBookingConfirmed(ctx, confirmed.ID.String(), confirmed.EventID.String(), userID.String())
	s.publish(ctx, notifications.EventBookingConfirmed, confirmed)
	return confirmed, nil
}

// CancelBooking releases the booking's seats and marks it CANCELLED
func (s *service) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) (*models.Booking, error) {
	var cancelled *models.Booking
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		booking, err := s.ownedBooking(tx, bookingID, userID)
		if err != nil {
			return err
		}

		now := s.inventory.Now()
		switch booking.Status {
		case models.BookingPending:
			if booking.IsPastExpiry(now) {
				return apperrors.New(apperrors.KindBookingExpired, "booking %s has expired", booking.BookingRef)
			}
			s.inventory.Unlock(tx, booking.SeatIDs, booking.UserID)
		case models.BookingConfirmed:
			s.inventory.ReleaseBooked(tx, booking.ID, booking.SeatIDs)
		default:
			return apperrors.InvalidState("cannot cancel a %s booking", booking.Status)
		}

		booking.Status = models.BookingCancelled
		booking.CancelledAt = &now
		booking.UpdatedAt = now
		tx.PutBooking(booking)
		cancelled = booking.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingTransition(string(models.BookingCancelled))
	s.log.LogBookingCancelled(ctx, cancelled.ID.String(), cancelled.EventID.String(), userID.String())
	s.publish(ctx, notifications.EventBookingCancelled, cancelled)
	return cancelled, nil
}

// ExpireBookings moves every overdue PENDING booking to EXPIRED and releases
// the seats it still holds. Status is re-read inside the transaction, so a
// booking confirmed or cancelled concurrently is left alone.
func (s *service) ExpireBookings(ctx context.Context) ([]models.Booking, error) {
	var expired []models.Booking
	released := make(map[uuid.UUID]int)

	err := s.store.Update(ctx, func(tx *store.Tx) error {
		now := s.inventory.Now()
		overdue := tx.Bookings(func(b *models.Booking) bool {
			return b.Status == models.BookingPending && !b.ExpiresAt.After(now)
		})

		for _, booking := range overdue {
			released[booking.ID] = s.inventory.Unlock(tx, booking.SeatIDs, booking.UserID)

			booking.Status = models.BookingExpired
			booking.ExpiredAt = &now
			booking.UpdatedAt = now
			tx.PutBooking(booking)
			expired = append(expired, *booking.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expire bookings: %w", err)
	}

	for i := range expired {
		booking := &expired[i]
		metrics.BookingTransition(string(models.BookingExpired))
		s.log.LogBookingExpired(ctx, booking.ID.String(), booking.EventID.String(), released[booking.ID])
		s.publish(ctx, notifications.EventBookingExpired, booking)
	}
	return expired, nil
}

// GetBooking returns the booking with its seats and event to its owner or an admin
func (s *service) GetBooking(ctx context.Context, bookingID uuid.UUID, principal users.Principal) (*BookingDetails, error) {
	var details *BookingDetails
	err := s.store.View(func(tx *store.Tx) error {
		booking, ok := tx.Booking(bookingID)
		if !ok {
			return apperrors.NotFound("booking %s not found", bookingID)
		}
		if !principal.CanAccess(booking.UserID) {
			return apperrors.Forbidden("not authorized to view this booking")
		}

		details = &BookingDetails{
			Booking: *booking.Clone(),
			Seats:   make([]models.Seat, 0, len(booking.SeatIDs)),
		}
		for _, id := range booking.SeatIDs {
			if seat, ok := tx.Seat(id); ok {
				details.Seats = append(details.Seats, *seat.Clone())
			}
		}
		if event, ok := tx.Event(booking.EventID); ok {
			details.Event = event.Clone()
		}
		return nil
	})
	return details, err
}

// ListUserBookings returns userID's bookings newest first. An empty status
// returns every booking.
func (s *service) ListUserBookings(ctx context.Context, userID uuid.UUID, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.Validation("invalid booking status %q", status)
	}

	var out []models.Booking
	err := s.store.View(func(tx *store.Tx) error {
		list := tx.Bookings(func(b *models.Booking) bool {
			return b.UserID == userID && (status == "" || b.Status == status)
		})
		out = cloneBookings(list)
		return nil
	})
	return out, err
}

// ListEventBookings returns the non-cancelled bookings of an event to the
// admin who created it
func (s *service) ListEventBookings(ctx context.Context, eventID uuid.UUID, principal users.Principal) ([]models.Booking, error) {
	var out []models.Booking
	err := s.store.View(func(tx *store.Tx) error {
		event, ok := tx.Event(eventID)
		if !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		if !principal.IsAdmin() || event.CreatedBy != principal.UserID {
			return apperrors.Forbidden("not authorized to view bookings for this event")
		}

		list := tx.Bookings(func(b *models.Booking) bool {
			return b.EventID == eventID && b.Status != models.BookingCancelled
		})
		out = cloneBookings(list)
		return nil
	})
	return out, err
}

func (s *service) ProtectedSeats(tx *store.Tx) map[uuid.UUID]uuid.UUID {
	now := s.inventory.Now()
	protected := make(map[uuid.UUID]uuid.UUID)
	for _, booking := range tx.Bookings(func(b *models.Booking) bool {
		return b.Status == models.BookingPending && !b.IsPastExpiry(now)
	}) {
		for _, id := range booking.SeatIDs {
			protected[id] = booking.UserID
		}
	}
	return protected
}

func (s *service) ownedBooking(tx *store.Tx, bookingID, userID uuid.UUID) (*models.Booking, error) {
	booking, ok := tx.Booking(bookingID)
	if !ok {
		return nil, apperrors.NotFound("booking %s not found", bookingID)
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("booking does not belong to user")
	}
	return booking, nil
}

func (s *service) uniqueReference(tx *store.Tx) (string, error) {
	now := s.inventory.Now()
	for i := 0; i < maxRefAttempts; i++ {
		ref, err := generateBookingReference(now)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		if !tx.BookingRefTaken(ref) {
			return ref, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique booking reference after %d attempts", maxRefAttempts)
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	evt := notifications.NewBookingEvent(eventType, booking.ID, booking.EventID, booking.UserID, s.inventory.Now())
	evt.BookingRef = booking.BookingRef
	evt.SeatCount = len(booking.SeatIDs)
	amount := booking.TotalPrice
	evt.Amount = &amount

	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"type":       string(eventType),
			"booking_id": booking.ID.String(),
		})
	}
}

func cloneBookings(list []*models.Booking) []models.Booking {
	out := make([]models.Booking, 0, len(list))
	for _, b := range list {
		out = append(out, *b.Clone())
	}
	return out
}

var _ seats.HoldProtector = (*service)(nil)
