package payments

import (
	"context"

	"ticketbooker/internal/models"
	"ticketbooker/internal/notifications"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"
	"ticketbooker/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service guards payment transitions against the booking lifecycle
type Service interface {
	SetPublisher(p notifications.Publisher)

	InitiatePayment(ctx context.Context, bookingID, userID uuid.UUID, method models.PaymentMethod) (*models.Payment, error)
	SettlePayment(ctx context.Context, paymentID uuid.UUID, outcome Outcome) (*models.Payment, error)
	ProcessPayment(ctx context.Context, paymentID, userID uuid.UUID) (*models.Payment, error)
	RetryPayment(ctx context.Context, paymentID, userID uuid.UUID) (*models.Payment, error)

	GetPaymentStatus(ctx context.Context, paymentID, userID uuid.UUID) (*PaymentDetails, error)
	ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
	ListBookingPayments(ctx context.Context, bookingID uuid.UUID, principal users.Principal) ([]models.Payment, error)
	EventPaymentStats(ctx context.Context, eventID uuid.UUID, principal users.Principal) (*Stats, error)
}

type service struct {
	store     *store.Store
	gateway   Gateway
	clock     clock.Clock
	publisher notifications.Publisher
	log       *logger.Logger
}

func NewService(st *store.Store, gateway Gateway, clk clock.Clock) Service {
	return &service{
		store:   st,
		gateway: gateway,
		clock:   clk,
		log:     logger.GetDefault().WithComponent("payments"),
	}
}

func (s *service) SetPublisher(p notifications.Publisher) {
	s.publisher = p
}

// InitiatePayment opens a PENDING payment for a CONFIRMED booking
func (s *service) InitiatePayment(ctx context.Context, bookingID, userID uuid.UUID, method models.PaymentMethod) (*models.Payment, error) {
	if !method.IsValid() {
		return nil, apperrors.Validation("invalid payment method %q", method)
	}

	var created *models.Payment
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		payment, err := s.initiate(tx, bookingID, userID, method)
		if err != nil {
			return err
		}
		created = payment.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransition(string(models.PaymentPending))
	s.log.InfoWithContext(ctx, "Payment initiated", map[string]interface{}{
		"payment_id": created.ID.String(),
		"booking_id": bookingID.String(),
		"amount":     created.Amount.String(),
	})
	return created, nil
}

func (s *service) initiate(tx *store.Tx, bookingID, userID uuid.UUID, method models.PaymentMethod) (*models.Payment, error) {
	booking, ok := tx.Booking(bookingID)
	if !ok {
		return nil, apperrors.NotFound("booking %s not found", bookingID)
	}
	if booking.UserID != userID {
		return nil, apperrors.Forbidden("not authorized for this booking")
	}
	if booking.Status != models.BookingConfirmed {
		return nil, apperrors.InvalidState("booking must be confirmed before payment, it is %s", booking.Status)
	}

	open := tx.Payments(func(p *models.Payment) bool {
		return p.BookingID == bookingID && p.Status != models.PaymentFailed
	})
	if len(open) > 0 {
		return nil, apperrors.InvalidState("payment already %s for this booking", open[0].Status)
	}

	now := s.clock.Now()
	payment := &models.Payment{
		ID:        uuid.New(),
		BookingID: bookingID,
		UserID:    userID,
		Amount:    booking.TotalPrice,
		Method:    method,
		Status:    models.PaymentPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	tx.PutPayment(payment)
	return payment, nil
}

// SettlePayment records the outcome of a PENDING payment. The booking stays
// CONFIRMED either way.
func (s *service) SettlePayment(ctx context.Context, paymentID uuid.UUID, outcome Outcome) (*models.Payment, error) {
	var (
		settled *models.Payment
		booking *models.Booking
	)
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		payment, ok := tx.Payment(paymentID)
		if !ok {
			return apperrors.NotFound("payment %s not found", paymentID)
		}
		if payment.Status != models.PaymentPending {
			return apperrors.InvalidState("payment is already %s", payment.Status)
		}

		now := s.clock.Now()
		if outcome.Success {
			txID := outcome.TransactionID
			if txID == "" {
				txID = generateTransactionID(now)
			}
			payment.MarkSucceeded(txID, now)
		} else {
			reason := outcome.FailureReason
			if reason == "" {
				reason = defaultDeclineReason
			}
			payment.MarkFailed(reason, now)
		}
		tx.PutPayment(payment)
		settled = payment.Clone()

		if b, ok := tx.Booking(payment.BookingID); ok {
			booking = b.Clone()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransition(string(settled.Status))
	s.log.LogPaymentSettled(ctx, settled.ID.String(), settled.BookingID.String(), string(settled.Status))
	s.publish(ctx, settled, booking)
	return settled, nil
}

// ProcessPayment asks the gateway for a decision and settles the payment
func (s *service) ProcessPayment(ctx context.Context, paymentID, userID uuid.UUID) (*models.Payment, error) {
	var pending models.Payment
	err := s.store.View(func(tx *store.Tx) error {
		payment, err := ownedPayment(tx, paymentID, userID)
		if err != nil {
			return err
		}
		if payment.Status != models.PaymentPending {
			return apperrors.InvalidState("payment is already %s", payment.Status)
		}
		pending = *payment.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome, err := s.gateway.Charge(ctx, pending)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Payment gateway error", err, map[string]interface{}{
			"payment_id": paymentID.String(),
		})
		return nil, err
	}
	return s.SettlePayment(ctx, paymentID, outcome)
}

// RetryPayment opens a fresh PENDING payment for the booking of a FAILED one
func (s *service) RetryPayment(ctx context.Context, paymentID, userID uuid.UUID) (*models.Payment, error) {
	var created *models.Payment
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		failed, err := ownedPayment(tx, paymentID, userID)
		if err != nil {
			return err
		}
		if failed.Status != models.PaymentFailed {
			return apperrors.InvalidState("only failed payments can be retried, payment is %s", failed.Status)
		}

		payment, err := s.initiate(tx, failed.BookingID, userID, failed.Method)
		if err != nil {
			return err
		}
		created = payment.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransition(string(models.PaymentPending))
	return created, nil
}

func (s *service) GetPaymentStatus(ctx context.Context, paymentID, userID uuid.UUID) (*PaymentDetails, error) {
	var details *PaymentDetails
	err := s.store.View(func(tx *store.Tx) error {
		payment, err := ownedPayment(tx, paymentID, userID)
		if err != nil {
			return err
		}
		details = &PaymentDetails{Payment: *payment.Clone()}
		if booking, ok := tx.Booking(payment.BookingID); ok {
			details.Booking = booking.Clone()
		}
		return nil
	})
	return details, err
}

func (s *service) ListUserPayments(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	var out []models.Payment
	err := s.store.View(func(tx *store.Tx) error {
		out = clonePayments(tx.Payments(func(p *models.Payment) bool { return p.UserID == userID }))
		return nil
	})
	return out, err
}

// ListBookingPayments returns every attempt made for a booking, newest first
func (s *service) ListBookingPayments(ctx context.Context, bookingID uuid.UUID, principal users.Principal) ([]models.Payment, error) {
	var out []models.Payment
	err := s.store.View(func(tx *store.Tx) error {
		booking, ok := tx.Booking(bookingID)
		if !ok {
			return apperrors.NotFound("booking %s not found", bookingID)
		}
		if !principal.CanAccess(booking.UserID) {
			return apperrors.Forbidden("not authorized for this booking")
		}
		out = clonePayments(tx.Payments(func(p *models.Payment) bool { return p.BookingID == bookingID }))
		return nil
	})
	return out, err
}

// EventPaymentStats summarizes payments across an event's bookings for the
// admin who created the event
func (s *service) EventPaymentStats(ctx context.Context, eventID uuid.UUID, principal users.Principal) (*Stats, error) {
	stats := &Stats{TotalRevenue: decimal.Zero, AverageTransaction: decimal.Zero}
	err := s.store.View(func(tx *store.Tx) error {
		event, ok := tx.Event(eventID)
		if !ok {
			return apperrors.NotFound("event %s not found", eventID)
		}
		if !principal.IsAdmin() || event.CreatedBy != principal.UserID {
			return apperrors.Forbidden("not authorized to view statistics for this event")
		}

		bookingIDs := make(map[uuid.UUID]struct{})
		for _, b := range tx.Bookings(func(b *models.Booking) bool { return b.EventID == eventID }) {
			bookingIDs[b.ID] = struct{}{}
		}

		for _, p := range tx.Payments(func(p *models.Payment) bool {
			_, ok := bookingIDs[p.BookingID]
			return ok
		}) {
			stats.TotalPayments++
			switch p.Status {
			case models.PaymentSuccess:
				stats.SuccessfulPayments++
				stats.TotalRevenue = stats.TotalRevenue.Add(p.Amount)
			case models.PaymentFailed:
				stats.FailedPayments++
			case models.PaymentPending:
				stats.PendingPayments++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stats.SuccessfulPayments > 0 {
		stats.AverageTransaction = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(stats.SuccessfulPayments))).
			Round(2)
	}
	return stats, nil
}

func (s *service) publish(ctx context.Context, payment *models.Payment, booking *models.Booking) {
	if s.publisher == nil || booking == nil {
		return
	}

	eventType := notifications.EventPaymentSucceeded
	if payment.Status == models.PaymentFailed {
		eventType = notifications.EventPaymentFailed
	}
	evt := notifications.NewBookingEvent(eventType, booking.ID, booking.EventID, booking.UserID, s.clock.Now())
	evt.BookingRef = booking.BookingRef
	evt.SeatCount = len(booking.SeatIDs)
	amount := payment.Amount
	evt.Amount = &amount
	paymentID := payment.ID
	evt.PaymentID = &paymentID

	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish payment event", err, map[string]interface{}{
			"payment_id": payment.ID.String(),
		})
	}
}

func ownedPayment(tx *store.Tx, paymentID, userID uuid.UUID) (*models.Payment, error) {
	payment, ok := tx.Payment(paymentID)
	if !ok {
		return nil, apperrors.NotFound("payment %s not found", paymentID)
	}
	if payment.UserID != userID {
		return nil, apperrors.Forbidden("not authorized for this payment")
	}
	return payment, nil
}

func clonePayments(list []*models.Payment) []models.Payment {
	out := make([]models.Payment, 0, len(list))
	for _, p := range list {
		out = append(out, *p.Clone())
	}
	return out
}
