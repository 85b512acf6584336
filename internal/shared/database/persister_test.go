package database

import (
	"strings"
	"testing"
	"time"

	"ticketbooker/internal/models"
	"ticketbooker/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements without ever opening a connection
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=ticketbooker dbname=ticketbooker sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	var captured []string
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture", func(d *gorm.DB) {
		captured = append(captured, d.Statement.SQL.String())
	}))
	return db, &captured
}

func TestSaveChangesUpsertsEachKind(t *testing.T) {
	db, captured := dryRunDB(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	eventID, bookingID := uuid.New(), uuid.New()

	changes := &store.Snapshot{
		Events: []models.Event{{ID: eventID, Title: "Show", TicketType: models.TicketEvent, Venue: "Hall",
			StartsAt: now, EndsAt: now.Add(time.Hour), BasePrice: decimal.NewFromInt(10), TotalSeats: 1,
			AvailableSeats: 1, CreatedBy: uuid.New(), IsActive: true, CreatedAt: now, UpdatedAt: now}},
		Seats: []models.Seat{{ID: uuid.New(), EventID: eventID, SeatNumber: "A1", Row: "A", Column: 1,
			Status: models.SeatAvailable, Price: decimal.NewFromInt(10), CreatedAt: now, UpdatedAt: now}},
		Bookings: []models.Booking{{ID: bookingID, UserID: uuid.New(), EventID: eventID,
			SeatIDs: []uuid.UUID{uuid.New()}, TotalPrice: decimal.NewFromInt(10), Status: models.BookingPending,
			BookingRef: "EVT-20260102-ABCDEF", CreatedAt: now, UpdatedAt: now, ExpiresAt: now.Add(30 * time.Minute)}},
	}

	require.NoError(t, saveChanges(db, changes))
	require.Len(t, *captured, 3)

	tables := []string{`"events"`, `"seats"`, `"bookings"`}
	for i, sql := range *captured {
		assert.Contains(t, sql, "INSERT INTO "+tables[i])
		assert.Contains(t, sql, `ON CONFLICT ("id") DO UPDATE SET`)
	}
}

func TestSaveChangesSkipsEmptySnapshot(t *testing.T) {
	db, captured := dryRunDB(t)
	require.NoError(t, saveChanges(db, &store.Snapshot{}))
	assert.Empty(t, *captured)
}

func TestOrderPaymentsFailedFirst(t *testing.T) {
	now := time.Now()
	pending := models.Payment{ID: uuid.New(), Status: models.PaymentPending, CreatedAt: now.Add(time.Minute)}
	failed := models.Payment{ID: uuid.New(), Status: models.PaymentFailed, CreatedAt: now}
	success := models.Payment{ID: uuid.New(), Status: models.PaymentSuccess, CreatedAt: now.Add(-time.Minute)}

	out := orderPayments([]models.Payment{pending, success, failed})
	assert.Equal(t, []uuid.UUID{failed.ID, success.ID, pending.ID}, []uuid.UUID{out[0].ID, out[1].ID, out[2].ID})
}

func TestConstraintStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range constraintStatements {
		idempotent := strings.Contains(stmt, "IF NOT EXISTS") || strings.Contains(stmt, "duplicate_object")
		assert.True(t, idempotent, stmt)
	}
}
