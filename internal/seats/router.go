package seats

import (
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {

	// PUBLIC SEAT MAPS

	events := rg.Group("/events")
	{
		events.GET("/:id/seats", controller.GetEventSeats)               // GET /api/v1/events/:id/seats
		events.GET("/:id/seats/available", controller.GetAvailableSeats) // GET /api/v1/events/:id/seats/available
	}

	// USER SEAT OPERATIONS

	seats := rg.Group("/seats")
	seats.Use(auth, middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		seats.GET("/:id", controller.GetSeat)         // GET /api/v1/seats/:id
		seats.POST("/lock", controller.LockSeats)     // POST /api/v1/seats/lock
		seats.POST("/unlock", controller.UnlockSeats) // POST /api/v1/seats/unlock
	}

	// ADMIN SEAT OPERATIONS

	adminEvents := rg.Group("/admin/events")
	adminEvents.Use(auth, middleware.RequireAdmin())
	{
		adminEvents.POST("/:id/seats", controller.CreateSeats) // POST /api/v1/admin/events/:id/seats
	}
}
