package payments

import (
	"context"
	"testing"
	"time"

	"ticketbooker/internal/bookings"
	"ticketbooker/internal/models"
	"ticketbooker/internal/seats"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/config"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGateway replays fixed outcomes in order
type scriptedGateway struct {
	outcomes []Outcome
	calls    int
}

func (g *scriptedGateway) Charge(_ context.Context, _ models.Payment) (Outcome, error) {
	out := g.outcomes[g.calls%len(g.outcomes)]
	g.calls++
	return out, nil
}

type fixture struct {
	clock    *clock.Fake
	bookings bookings.Service
	payments Service
	gateway  *scriptedGateway
	event    *models.Event
	seatIDs  []uuid.UUID
	user     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.SetDefault(logger.Discard())
	ctx := context.Background()

	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	st := store.New(nil)
	inv := seats.NewInventory(clk)
	bookingSvc := bookings.NewService(st, inv, config.BookingConfig{
		ReservationWindow:  30 * time.Minute,
		SeatHoldDuration:   10 * time.Minute,
		MaxSeatsPerBooking: 10,
	})
	gw := &scriptedGateway{outcomes: []Outcome{{Success: true}}}

	event := &models.Event{
		ID:             uuid.New(),
		Title:          "Concert",
		TicketType:     models.TicketEvent,
		Venue:          "Hall",
		StartsAt:       clk.Now().Add(24 * time.Hour),
		EndsAt:         clk.Now().Add(26 * time.Hour),
		BasePrice:      decimal.NewFromInt(100),
		TotalSeats:     3,
		AvailableSeats: 3,
		CreatedBy:      uuid.New(),
		IsActive:       true,
	}
	var seatIDs []uuid.UUID
	require.NoError(t, st.Update(ctx, func(tx *store.Tx) error {
		tx.PutEvent(event.Clone())
		for i, label := range []string{"A", "B", "C"} {
			seat := &models.Seat{
				ID:         uuid.New(),
				EventID:    event.ID,
				SeatNumber: label,
				Row:        "1",
				Column:     i + 1,
				Status:     models.SeatAvailable,
				Price:      decimal.NewFromInt(100),
			}
			seatIDs = append(seatIDs, seat.ID)
			tx.PutSeat(seat)
		}
		return nil
	}))

	return &fixture{
		clock:    clk,
		bookings: bookingSvc,
		payments: NewService(st, gw, clk),
		gateway:  gw,
		event:    event,
		seatIDs:  seatIDs,
		user:     uuid.New(),
	}
}

// confirmedBooking books seats A and B for the fixture user
func (f *fixture) confirmedBooking(t *testing.T) *models.Booking {
	t.Helper()
	ctx := context.Background()
	booking, err := f.bookings.CreateBooking(ctx, f.event.ID, f.seatIDs[:2], f.user)
	require.NoError(t, err)
	confirmed, err := f.bookings.ConfirmBooking(ctx, booking.ID, f.user)
	require.NoError(t, err)
	return confirmed
}

func TestInitiatePaymentRequiresConfirmedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending, err := f.bookings.CreateBooking(ctx, f.event.ID, f.seatIDs[2:], f.user)
	require.NoError(t, err)

	_, err = f.payments.InitiatePayment(ctx, pending.ID, f.user, models.MethodCard)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.payments.InitiatePayment(ctx, uuid.New(), f.user, models.MethodCard)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	booking := f.confirmedBooking(t)
	_, err = f.payments.InitiatePayment(ctx, booking.ID, uuid.New(), models.MethodCard)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.payments.InitiatePayment(ctx, booking.ID, f.user, "cheque")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	payment, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(200)))

	_, err = f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodCard)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestFailedPaymentThenReinitiate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.confirmedBooking(t)

	first, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodCard)
	require.NoError(t, err)

	failed, err := f.payments.SettlePayment(ctx, first.ID, Outcome{Success: false})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, failed.Status)
	require.NotNil(t, failed.FailureReason)
	assert.Equal(t, "payment declined by provider", *failed.FailureReason)
	assert.Nil(t, failed.TransactionID)

	details, err := f.bookings.GetBooking(ctx, booking.ID, users.Principal{UserID: f.user, Role: users.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, details.Booking.Status)

	_, err = f.payments.SettlePayment(ctx, first.ID, Outcome{Success: true})
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	second, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodWallet)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	settled, err := f.payments.SettlePayment(ctx, second.ID, Outcome{Success: true, TransactionID: "TXN_GATEWAY_1"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, settled.Status)
	assert.Equal(t, "TXN_GATEWAY_1", *settled.TransactionID)
	assert.Nil(t, settled.FailureReason)

	history, err := f.payments.ListBookingPayments(ctx, booking.ID, users.Principal{UserID: f.user, Role: users.RoleUser})
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestProcessPaymentUsesGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.confirmedBooking(t)
	f.gateway.outcomes = []Outcome{{FailureReason: "card expired"}, {Success: true}}

	payment, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodCard)
	require.NoError(t, err)

	_, err = f.payments.ProcessPayment(ctx, payment.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	processed, err := f.payments.ProcessPayment(ctx, payment.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, processed.Status)
	assert.Equal(t, "card expired", *processed.FailureReason)

	_, err = f.payments.ProcessPayment(ctx, payment.ID, f.user)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	retry, err := f.payments.RetryPayment(ctx, payment.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, models.MethodCard, retry.Method)

	_, err = f.payments.RetryPayment(ctx, retry.ID, f.user)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState, "pending payments cannot be retried")

	processed, err = f.payments.ProcessPayment(ctx, retry.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, processed.Status)
	assert.Regexp(t, `^TXN_\d+_[0-9A-F]{8}$`, *processed.TransactionID)

	status, err := f.payments.GetPaymentStatus(ctx, retry.ID, f.user)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, status.Payment.Status)
	require.NotNil(t, status.Booking)
	assert.Equal(t, booking.BookingRef, status.Booking.BookingRef)

	_, err = f.payments.GetPaymentStatus(ctx, retry.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	mine, err := f.payments.ListUserPayments(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestEventPaymentStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.confirmedBooking(t)

	first, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodCard)
	require.NoError(t, err)
	_, err = f.payments.SettlePayment(ctx, first.ID, Outcome{})
	require.NoError(t, err)
	second, err := f.payments.InitiatePayment(ctx, booking.ID, f.user, models.MethodCard)
	require.NoError(t, err)
	_, err = f.payments.SettlePayment(ctx, second.ID, Outcome{Success: true})
	require.NoError(t, err)

	creator := users.Principal{UserID: f.event.CreatedBy, Role: users.RoleAdmin}
	stats, err := f.payments.EventPaymentStats(ctx, f.event.ID, creator)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPayments)
	assert.Equal(t, 1, stats.SuccessfulPayments)
	assert.Equal(t, 1, stats.FailedPayments)
	assert.Equal(t, 0, stats.PendingPayments)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(200)))
	assert.True(t, stats.AverageTransaction.Equal(decimal.NewFromInt(200)))

	_, err = f.payments.EventPaymentStats(ctx, f.event.ID, users.Principal{UserID: f.user, Role: users.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestSimulatedGateway(t *testing.T) {
	ctx := context.Background()

	approve := NewSimulatedGateway(0.95, WithRandom(func() float64 { return 0.5 }))
	out, err := approve.Charge(ctx, models.Payment{})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.TransactionID)

	decline := NewSimulatedGateway(0.95, WithRandom(func() float64 { return 0.97 }))
	out, err = decline.Charge(ctx, models.Payment{})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, defaultDeclineReason, out.FailureReason)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = approve.Charge(cancelled, models.Payment{})
	assert.ErrorIs(t, err, context.Canceled)
}
