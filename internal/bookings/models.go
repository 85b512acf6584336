package bookings

import (
	"ticketbooker/internal/models"
)

// BookingDetails is a booking together with the seats and event it refers to
type BookingDetails struct {
	Booking models.Booking
	Seats   []models.Seat
	Event   *models.Event
}
