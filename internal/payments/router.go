package payments

import (
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	RegisterValidators()

	payments := rg.Group("/payments")
	payments.Use(auth, middleware.RequireRoles(users.RoleUser, users.RoleAdmin))
	{
		payments.POST("/initiate", controller.InitiatePayment)      // POST /api/v1/payments/initiate
		payments.GET("/my-payments", controller.GetMyPayments)      // GET /api/v1/payments/my-payments
		payments.GET("/booking/:id", controller.GetBookingPayments) // GET /api/v1/payments/booking/:id
		payments.POST("/:id/process", controller.ProcessPayment)    // POST /api/v1/payments/:id/process
		payments.POST("/:id/retry", controller.RetryPayment)        // POST /api/v1/payments/:id/retry
		payments.GET("/:id/status", controller.GetPaymentStatus)    // GET /api/v1/payments/:id/status
	}

	admin := rg.Group("/admin/events")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.GET("/:id/payments/stats", controller.GetEventPaymentStats) // GET /api/v1/admin/events/:id/payments/stats
	}
}
