package seats

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *store.Store
	clock   *clock.Fake
	service Service
	event   *models.Event
	seats   []*models.Seat
}

func newFixture(t *testing.T, seatCount int) *fixture {
	t.Helper()
	logger.SetDefault(logger.Discard())

	clk := clock.NewFake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	st := store.New(nil)
	event := &models.Event{
		ID:             uuid.New(),
		Title:          "Concert",
		TicketType:     models.TicketEvent,
		Venue:          "Hall",
		StartsAt:       clk.Now().Add(48 * time.Hour),
		EndsAt:         clk.Now().Add(50 * time.Hour),
		BasePrice:      decimal.NewFromInt(100),
		TotalSeats:     seatCount,
		AvailableSeats: seatCount,
		CreatedBy:      uuid.New(),
		IsActive:       true,
	}

	seats := make([]*models.Seat, 0, seatCount)
	require.NoError(t, st.Update(context.Background(), func(tx *store.Tx) error {
		tx.PutEvent(event.Clone())
		for i := 0; i < seatCount; i++ {
			seat := &models.Seat{
				ID:         uuid.New(),
				EventID:    event.ID,
				SeatNumber: fmt.Sprintf("A%d", i+1),
				Row:        "A",
				Column:     i + 1,
				Status:     models.SeatAvailable,
				Price:      decimal.NewFromInt(100),
			}
			tx.PutSeat(seat.Clone())
			seats = append(seats, seat)
		}
		return nil
	}))

	return &fixture{
		store:   st,
		clock:   clk,
		service: NewService(st, NewInventory(clk)),
		event:   event,
		seats:   seats,
	}
}

func (f *fixture) ids(idx ...int) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(idx))
	for _, i := range idx {
		out = append(out, f.seats[i].ID)
	}
	return out
}

func (f *fixture) seat(t *testing.T, i int) *models.Seat {
	t.Helper()
	seat, err := f.service.GetSeat(context.Background(), f.seats[i].ID)
	require.NoError(t, err)
	return seat
}

func TestLockSeats(t *testing.T) {
	f := newFixture(t, 3)
	holder := uuid.New()

	result, err := f.service.LockSeats(context.Background(), f.event.ID, f.ids(0, 1), holder, 10*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, f.clock.Now().Add(10*time.Minute), result.LockedUntil)
	assert.Len(t, result.SeatIDs, 2)
	for _, i := range []int{0, 1} {
		seat := f.seat(t, i)
		assert.Equal(t, models.SeatLocked, seat.Status)
		assert.True(t, seat.IsLockedBy(holder))
		assert.NoError(t, seat.CheckInvariant())
	}
	assert.Equal(t, models.SeatAvailable, f.seat(t, 2).Status)
}

func TestLockSeatsIsAllOrNothing(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(1), uuid.New(), 10*time.Minute)
	require.NoError(t, err)

	_, err = f.service.LockSeats(ctx, f.event.ID, f.ids(0, 1, 2), uuid.New(), 10*time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSeatUnavailable)
	assert.Contains(t, err.Error(), "A2")

	assert.Equal(t, models.SeatAvailable, f.seat(t, 0).Status)
	assert.Equal(t, models.SeatAvailable, f.seat(t, 2).Status)
}

func TestLockSeatsRejects(t *testing.T) {
	f := newFixture(t, 2)
	other := newFixture(t, 1)
	ctx := context.Background()

	tests := []struct {
		name    string
		eventID uuid.UUID
		seatIDs []uuid.UUID
		hold    time.Duration
		want    error
	}{
		{"unknown event", uuid.New(), f.ids(0), time.Minute, apperrors.ErrNotFound},
		{"seat of another event", f.event.ID, []uuid.UUID{other.seats[0].ID}, time.Minute, apperrors.ErrSeatNotFound},
		{"unknown seat", f.event.ID, []uuid.UUID{uuid.New()}, time.Minute, apperrors.ErrSeatNotFound},
		{"empty set", f.event.ID, nil, time.Minute, apperrors.ErrValidation},
		{"duplicate seat", f.event.ID, f.ids(0, 0), time.Minute, apperrors.ErrValidation},
		{"zero hold", f.event.ID, f.ids(0), 0, apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.LockSeats(ctx, tt.eventID, tt.seatIDs, uuid.New(), tt.hold)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, models.SeatAvailable, f.seat(t, 0).Status)
}

func TestLockSeatsOnInactiveEvent(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	require.NoError(t, f.store.Update(ctx, func(tx *store.Tx) error {
		event, _ := tx.Event(f.event.ID)
		event.IsActive = false
		tx.PutEvent(event)
		return nil
	}))

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(0), uuid.New(), time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	assert.Equal(t, models.SeatAvailable, f.seat(t, 0).Status)
}

func TestConcurrentOverlappingLocks(t *testing.T) {
	const contenders = 16
	f := newFixture(t, contenders+2)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []uuid.UUID
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			holder := uuid.New()
			// every contender wants the shared pair plus one seat of its own
			_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(0, 1, i+2), holder, 10*time.Minute)
			if err == nil {
				mu.Lock()
				winners = append(winners, holder)
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrSeatUnavailable)
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	locked := 0
	for i := range f.seats {
		seat := f.seat(t, i)
		if seat.Status == models.SeatLocked {
			assert.True(t, seat.IsLockedBy(winners[0]))
			locked++
		}
	}
	assert.Equal(t, 3, locked)
}

func TestUnlockSeatsIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	holder := uuid.New()

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(0, 1), holder, 10*time.Minute)
	require.NoError(t, err)

	res, err := f.service.UnlockSeats(ctx, f.ids(0, 1, 2), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, res.UnlockedCount)

	res, err = f.service.UnlockSeats(ctx, f.ids(0, 1, 1), holder)
	require.NoError(t, err)
	assert.Equal(t, 2, res.UnlockedCount)

	res, err = f.service.UnlockSeats(ctx, f.ids(0, 1), holder)
	require.NoError(t, err)
	assert.Equal(t, 0, res.UnlockedCount)

	seat := f.seat(t, 0)
	assert.Equal(t, models.SeatAvailable, seat.Status)
	assert.NoError(t, seat.CheckInvariant())
}

type stubProtector map[uuid.UUID]uuid.UUID

func (p stubProtector) ProtectedSeats(*store.Tx) map[uuid.UUID]uuid.UUID { return p }

func TestExpireLockedSeats(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(0), first, 10*time.Minute)
	require.NoError(t, err)
	_, err = f.service.LockSeats(ctx, f.event.ID, f.ids(1), second, 10*time.Minute)
	require.NoError(t, err)
	_, err = f.service.LockSeats(ctx, f.event.ID, f.ids(2), second, 30*time.Minute)
	require.NoError(t, err)

	f.clock.Advance(9 * time.Minute)
	n, err := f.service.ExpireLockedSeats(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// seat 1 is claimed by a pending booking of its holder; seat 0's claim
	// names a different holder and does not protect it
	f.service.SetHoldProtector(stubProtector{
		f.seats[0].ID: second,
		f.seats[1].ID: second,
	})

	f.clock.Advance(time.Minute)
	n, err = f.service.ExpireLockedSeats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, models.SeatAvailable, f.seat(t, 0).Status)
	assert.Equal(t, models.SeatLocked, f.seat(t, 1).Status)
	assert.Equal(t, models.SeatLocked, f.seat(t, 2).Status)
}

func TestListSeats(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(1), uuid.New(), 10*time.Minute)
	require.NoError(t, err)

	all, err := f.service.ListEventSeats(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A1", all[0].SeatNumber)

	available, err := f.service.ListAvailableSeats(ctx, f.event.ID)
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, "A3", available[1].SeatNumber)

	_, err = f.service.ListAvailableSeats(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.service.GetSeat(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateSeats(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	require.NoError(t, f.store.Update(ctx, func(tx *store.Tx) error {
		event, _ := tx.Event(f.event.ID)
		event.TotalSeats = 3
		event.AvailableSeats = 3
		tx.PutEvent(event)
		return nil
	}))

	creator := users.Principal{UserID: f.event.CreatedBy, Role: users.RoleAdmin}

	t.Run("only the creating admin", func(t *testing.T) {
		specs := []SeatSpec{{SeatNumber: "A1", Row: "A", Column: 1}}
		_, err := f.service.CreateSeats(ctx, f.event.ID, users.Principal{UserID: uuid.New(), Role: users.RoleAdmin}, specs)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		_, err = f.service.CreateSeats(ctx, f.event.ID, users.Principal{UserID: f.event.CreatedBy, Role: users.RoleUser}, specs)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("creates seats at base price by default", func(t *testing.T) {
		created, err := f.service.CreateSeats(ctx, f.event.ID, creator, []SeatSpec{
			{SeatNumber: "A1", Row: "A", Column: 1},
			{SeatNumber: "A2", Row: "A", Column: 2, Price: decimal.NewFromInt(250)},
		})
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.True(t, created[0].Price.Equal(decimal.NewFromInt(100)))
		assert.True(t, created[1].Price.Equal(decimal.NewFromInt(250)))
		assert.Equal(t, models.SeatAvailable, created[0].Status)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := f.service.CreateSeats(ctx, f.event.ID, creator, []SeatSpec{{SeatNumber: "A1", Row: "A"}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.service.CreateSeats(ctx, f.event.ID, creator, []SeatSpec{{SeatNumber: "B1", Row: "B", Price: decimal.NewFromInt(-1)}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.service.CreateSeats(ctx, f.event.ID, creator, []SeatSpec{
			{SeatNumber: "B1", Row: "B"},
			{SeatNumber: "B2", Row: "B"},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	seats, err := f.service.ListEventSeats(ctx, f.event.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)
}

func TestBookClampsDriftedAvailableCounter(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	holder := uuid.New()

	_, err := f.service.LockSeats(ctx, f.event.ID, f.ids(0, 1), holder, 10*time.Minute)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger.SetDefault(logger.NewWithWriter(&buf, "warn"))
	t.Cleanup(func() { logger.SetDefault(logger.Discard()) })
	inv := NewInventory(f.clock)

	require.NoError(t, f.store.Update(ctx, func(tx *store.Tx) error {
		event, _ := tx.Event(f.event.ID)
		event.AvailableSeats = 1 // out of step with the two unbooked seats
		tx.PutEvent(event)
		_, err := inv.Book(tx, f.event.ID, f.ids(0, 1), holder, uuid.New())
		return err
	}))

	require.NoError(t, f.store.View(func(tx *store.Tx) error {
		event, _ := tx.Event(f.event.ID)
		assert.Equal(t, 0, event.AvailableSeats)
		return nil
	}))
	assert.Contains(t, buf.String(), "Available seat counter out of range")
	assert.Contains(t, buf.String(), "floor")
}
