package database

import (
	"ticketbooker/internal/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Seat{},
		&models.Booking{},
		&models.Payment{},
	); err != nil {
		return err
	}
	return MigrateConstraints(db)
}
