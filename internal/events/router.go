package events

import (
	"ticketbooker/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	// Public event routes
	events := rg.Group("/events")
	{
		events.GET("", controller.GetAllEvents)            // GET /api/v1/events
		events.GET("/:id", controller.GetEvent)            // GET /api/v1/events/:id
		events.GET("/:id/stats", controller.GetEventStats) // GET /api/v1/events/:id/stats
	}

	// Admin event routes
	adminEvents := rg.Group("/admin/events")
	adminEvents.Use(auth, middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)       // POST /api/v1/admin/events
		adminEvents.PUT("/:id", controller.UpdateEvent)    // PUT /api/v1/admin/events/:id
		adminEvents.DELETE("/:id", controller.DeleteEvent) // DELETE /api/v1/admin/events/:id
	}
}
