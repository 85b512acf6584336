package bookings

import (
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	bookings := rg.Group("/bookings")
	bookings.Use(auth, middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		bookings.POST("", controller.CreateBooking)              // POST /api/v1/bookings
		bookings.GET("/my-bookings", controller.GetMyBookings)   // GET /api/v1/bookings/my-bookings
		bookings.GET("/:id", controller.GetBooking)              // GET /api/v1/bookings/:id
		bookings.POST("/:id/confirm", controller.ConfirmBooking) // POST /api/v1/bookings/:id/confirm
		bookings.POST("/:id/cancel", controller.CancelBooking)   // POST /api/v1/bookings/:id/cancel
	}

	admin := rg.Group("/admin/events")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.GET("/:id/bookings", controller.GetEventBookings) // GET /api/v1/admin/events/:id/bookings
	}
}

// Key flow:
// 1. User browses GET /events/:id/seats/available
// 2. User reserves with POST /bookings; seats are locked for the hold window
// 3. User confirms with POST /bookings/:id/confirm before the booking expires
// 4. Seats move to BOOKED and the user pays with POST /payments/initiate
// 5. Unconfirmed bookings are expired by the reconciler and their seats released
