package database

import (
	"fmt"

	"gorm.io/gorm"
)

// constraintStatements back the in-memory invariants at the storage layer.
// Every statement is idempotent.
var constraintStatements = []string{
	// At most one payment that is not FAILED per booking
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_one_live_per_booking
		ON payments (booking_id) WHERE status <> 'FAILED'`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_booking_ref
		ON bookings (booking_ref)`,

	// Locked seats carry holder and deadline, booked seats their booking
	`DO $$ BEGIN
		ALTER TABLE seats ADD CONSTRAINT chk_seats_status_metadata CHECK (
			(status = 'AVAILABLE' AND locked_by IS NULL AND booking_id IS NULL) OR
			(status = 'LOCKED' AND locked_by IS NOT NULL AND locked_until IS NOT NULL AND booking_id IS NULL) OR
			(status = 'BOOKED' AND booking_id IS NOT NULL AND booked_by IS NOT NULL)
		);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE INDEX IF NOT EXISTS idx_bookings_pending_expiry
		ON bookings (expires_at) WHERE status = 'PENDING'`,

	`CREATE INDEX IF NOT EXISTS idx_seats_locked_until
		ON seats (locked_until) WHERE status = 'LOCKED'`,
}

// MigrateConstraints adds partial indexes and checks AutoMigrate cannot express
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	return nil
}
