package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/apperrors"
	"ticketbooker/internal/shared/clock"
	"ticketbooker/internal/shared/constants"
	"ticketbooker/internal/store"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/cache"
	"ticketbooker/pkg/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *store.Store, users.Principal) {
	t.Helper()
	logger.SetDefault(logger.Discard())
	st := store.New(nil)
	svc := NewService(st, clock.NewFake(t0), 30*time.Second)
	admin := users.Principal{UserID: uuid.New(), Role: users.RoleAdmin}
	return svc, st, admin
}

func validRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Friday Night Jazz",
		Description: "Quartet on the main stage",
		TicketType:  "EVENT",
		Venue:       "Blue Hall",
		StartsAt:    t0.Add(48 * time.Hour),
		EndsAt:      t0.Add(51 * time.Hour),
		BasePrice:   decimal.NewFromInt(100),
		TotalSeats:  6,
	}
}

func TestCreateEventWithSeatGrid(t *testing.T) {
	svc, st, admin := newTestService(t)
	req := validRequest()
	req.SeatLayout = &SeatLayout{Rows: 2, SeatsPerRow: 3}

	event, err := svc.CreateEvent(context.Background(), admin, req)
	require.NoError(t, err)
	assert.Equal(t, 6, event.AvailableSeats)
	assert.True(t, event.IsActive)
	assert.Equal(t, admin.UserID, event.CreatedBy)

	var labels []string
	require.NoError(t, st.View(func(tx *store.Tx) error {
		for _, seat := range tx.SeatsForEvent(event.ID) {
			labels = append(labels, seat.SeatNumber)
			assert.Equal(t, models.SeatAvailable, seat.Status)
			assert.True(t, seat.Price.Equal(decimal.NewFromInt(100)))
		}
		return nil
	}))
	assert.Equal(t, []string{"A1", "A2", "A3", "B1", "B2", "B3"}, labels)
}

func TestCreateEventRejects(t *testing.T) {
	svc, _, admin := newTestService(t)
	user := users.Principal{UserID: uuid.New(), Role: users.RoleUser}

	tests := []struct {
		name      string
		principal users.Principal
		mutate    func(r *CreateEventRequest)
		kind      apperrors.Kind
	}{
		{"non admin", user, func(r *CreateEventRequest) {}, apperrors.KindForbidden},
		{"missing title", admin, func(r *CreateEventRequest) { r.Title = "" }, apperrors.KindValidation},
		{"unknown ticket type", admin, func(r *CreateEventRequest) { r.TicketType = "PLANE" }, apperrors.KindValidation},
		{"ends before start", admin, func(r *CreateEventRequest) { r.EndsAt = r.StartsAt.Add(-time.Hour) }, apperrors.KindValidation},
		{"equal start and end", admin, func(r *CreateEventRequest) { r.EndsAt = r.StartsAt }, apperrors.KindValidation},
		{"negative price", admin, func(r *CreateEventRequest) { r.BasePrice = decimal.NewFromInt(-1) }, apperrors.KindValidation},
		{"zero seats", admin, func(r *CreateEventRequest) { r.TotalSeats = 0 }, apperrors.KindValidation},
		{"grid too large", admin, func(r *CreateEventRequest) { r.SeatLayout = &SeatLayout{Rows: 3, SeatsPerRow: 3} }, apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.CreateEvent(context.Background(), tt.principal, req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}
}

func TestListEventsFiltersAndOrders(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	mk := func(title, venue, ticketType string, startIn time.Duration) *models.Event {
		req := validRequest()
		req.Title, req.Venue, req.TicketType = title, venue, ticketType
		req.StartsAt = t0.Add(startIn)
		req.EndsAt = req.StartsAt.Add(2 * time.Hour)
		e, err := svc.CreateEvent(ctx, admin, req)
		require.NoError(t, err)
		return e
	}
	late := mk("Late Show", "Blue Hall", "MOVIE", 72*time.Hour)
	early := mk("Matinee", "Red Room", "MOVIE", 24*time.Hour)
	bus := mk("Night Coach", "Central Station", "BUS", 48*time.Hour)
	gone := mk("Cancelled Gig", "Blue Hall", "EVENT", 12*time.Hour)
	require.NoError(t, svc.DeleteEvent(ctx, gone.ID, admin))

	all, err := svc.ListEvents(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{early.ID, bus.ID, late.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})

	movies, err := svc.ListEvents(ctx, ListFilter{TicketType: "MOVIE"})
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	byVenue, err := svc.ListEvents(ctx, ListFilter{Venue: "blue"})
	require.NoError(t, err)
	require.Len(t, byVenue, 1)
	assert.Equal(t, late.ID, byVenue[0].ID)

	searched, err := svc.ListEvents(ctx, ListFilter{Search: "STATION"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, bus.ID, searched[0].ID)
}

func TestUpdateEventCreatorOnly(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()
	event, err := svc.CreateEvent(ctx, admin, validRequest())
	require.NoError(t, err)

	otherAdmin := users.Principal{UserID: uuid.New(), Role: users.RoleAdmin}
	title := "Renamed"
	_, err = svc.UpdateEvent(ctx, event.ID, otherAdmin, UpdateEventRequest{Title: &title})
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	price := decimal.NewFromInt(120)
	updated, err := svc.UpdateEvent(ctx, event.ID, admin, UpdateEventRequest{Title: &title, BasePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.True(t, updated.BasePrice.Equal(price))
	assert.Equal(t, event.TotalSeats, updated.TotalSeats)

	badEnd := event.StartsAt.Add(-time.Minute)
	_, err = svc.UpdateEvent(ctx, event.ID, admin, UpdateEventRequest{EndsAt: &badEnd})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.EndsAt, got.EndsAt)
}

func TestDeleteEventRefusedWithActiveBookings(t *testing.T) {
	svc, st, admin := newTestService(t)
	ctx := context.Background()
	event, err := svc.CreateEvent(ctx, admin, validRequest())
	require.NoError(t, err)

	booking := &models.Booking{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		EventID:    event.ID,
		Status:     models.BookingConfirmed,
		BookingRef: "EVT-20260510-ABC123",
		CreatedAt:  t0,
		ExpiresAt:  t0.Add(30 * time.Minute),
	}
	require.NoError(t, st.Update(ctx, func(tx *store.Tx) error {
		tx.PutBooking(booking)
		return nil
	}))

	err = svc.DeleteEvent(ctx, event.ID, admin)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))

	require.NoError(t, st.Update(ctx, func(tx *store.Tx) error {
		b, _ := tx.Booking(booking.ID)
		b.Status = models.BookingCancelled
		tx.PutBooking(b)
		return nil
	}))

	require.NoError(t, svc.DeleteEvent(ctx, event.ID, admin))
	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestGetEventNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetEvent(context.Background(), uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestEventStatsCountsAndCaches(t *testing.T) {
	svc, st, admin := newTestService(t)
	client, mock := redismock.NewClientMock()
	svc.SetCacheService(cache.NewService(client))
	ctx := context.Background()

	req := validRequest()
	req.SeatLayout = &SeatLayout{Rows: 1, SeatsPerRow: 3}
	event, err := svc.CreateEvent(ctx, admin, req)
	require.NoError(t, err)

	holder := uuid.New()
	require.NoError(t, st.Update(ctx, func(tx *store.Tx) error {
		seats := tx.SeatsForEvent(event.ID)
		seats[0].Lock(holder, t0.Add(10*time.Minute), t0)
		tx.PutSeat(seats[0])
		return nil
	}))

	key := constants.BuildEventStatsKey(event.ID.String())
	payload := fmt.Sprintf(`{"event_id":"%s","total_seats":6,"available_seats":6,"booked_seats":0,"locked_seats":1}`, event.ID)

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, []byte(payload), 30*time.Second).SetVal("OK")
	mock.ExpectGet(key).SetVal(payload)

	first, err := svc.GetEventStats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.LockedSeats)
	assert.Equal(t, 0, first.BookedSeats)

	second, err := svc.GetEventStats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInvalidatesCache(t *testing.T) {
	svc, _, admin := newTestService(t)
	client, mock := redismock.NewClientMock()
	svc.SetCacheService(cache.NewService(client))
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, admin, validRequest())
	require.NoError(t, err)

	mock.ExpectDel(constants.BuildEventStatsKey(event.ID.String())).SetVal(1)

	venue := "Green Hall"
	_, err = svc.UpdateEvent(ctx, event.ID, admin, UpdateEventRequest{Venue: &venue})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
