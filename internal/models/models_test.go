package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatTransitionsKeepInvariant(t *testing.T) {
	now := time.Now()
	seat := &Seat{ID: uuid.New(), Status: SeatAvailable, Price: decimal.NewFromInt(100)}
	require.NoError(t, seat.CheckInvariant())

	holder := uuid.New()
	seat.Lock(holder, now.Add(10*time.Minute), now)
	require.NoError(t, seat.CheckInvariant())
	assert.True(t, seat.IsLockedBy(holder))
	assert.False(t, seat.IsLockedBy(uuid.New()))

	seat.Book(holder, uuid.New(), now)
	require.NoError(t, seat.CheckInvariant())
	assert.Nil(t, seat.LockedBy)
	assert.False(t, seat.IsLockedBy(holder))

	seat.Release(now)
	require.NoError(t, seat.CheckInvariant())
	assert.True(t, seat.IsAvailable())
}

func TestSeatInvariantViolations(t *testing.T) {
	holder := uuid.New()
	until := time.Now()

	bad := []*Seat{
		{Status: SeatAvailable, LockedBy: &holder},
		{Status: SeatLocked, LockedBy: &holder},
		{Status: SeatBooked, BookedBy: &holder},
		{Status: SeatBooked, BookedBy: &holder, BookingID: &holder, LockedUntil: &until},
		{Status: "HELD"},
	}
	for _, s := range bad {
		assert.Error(t, s.CheckInvariant())
	}
}

func TestLockLapsed(t *testing.T) {
	now := time.Now()
	seat := &Seat{Status: SeatAvailable}
	seat.Lock(uuid.New(), now, now.Add(-time.Minute))

	assert.True(t, seat.LockLapsed(now))
	assert.False(t, seat.LockLapsed(now.Add(-time.Second)))
}

func TestCloneIsDeep(t *testing.T) {
	now := time.Now()
	seat := &Seat{Status: SeatAvailable}
	seat.Lock(uuid.New(), now, now)
	c := seat.Clone()
	*c.LockedBy = uuid.New()
	assert.NotEqual(t, *seat.LockedBy, *c.LockedBy)

	b := &Booking{SeatIDs: []uuid.UUID{uuid.New()}}
	bc := b.Clone()
	bc.SeatIDs[0] = uuid.New()
	assert.NotEqual(t, b.SeatIDs[0], bc.SeatIDs[0])
}

func TestBookingStatusHelpers(t *testing.T) {
	assert.True(t, BookingCancelled.IsTerminal())
	assert.True(t, BookingExpired.IsTerminal())
	assert.False(t, BookingConfirmed.IsTerminal())
	assert.True(t, BookingConfirmed.CanBeCancelled())
	assert.False(t, BookingExpired.CanBeCancelled())
	assert.False(t, BookingStatus("confirmed").IsValid())
}

func TestPaymentSettlement(t *testing.T) {
	now := time.Now()
	p := &Payment{Status: PaymentPending}
	p.MarkFailed("declined", now)
	assert.Equal(t, PaymentFailed, p.Status)
	assert.Nil(t, p.TransactionID)
	assert.True(t, p.Status.IsSettled())

	p2 := &Payment{Status: PaymentPending}
	p2.MarkSucceeded("TXN_1", now)
	assert.Equal(t, "TXN_1", *p2.TransactionID)
	assert.Nil(t, p2.FailureReason)

	assert.True(t, MethodUPI.IsValid())
	assert.False(t, PaymentMethod("cash").IsValid())
}
