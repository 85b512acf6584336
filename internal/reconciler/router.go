package reconciler

import (
	"ticketbooker/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupReconcilerRoutes(rg *gin.RouterGroup, controller *Controller, auth gin.HandlerFunc) {
	admin := rg.Group("/admin/reconciler")
	admin.Use(auth, middleware.RequireAdmin())
	{
		admin.POST("/run", controller.RunNow)       // POST /api/v1/admin/reconciler/run
		admin.GET("/status", controller.GetStatus) // GET /api/v1/admin/reconciler/status
	}
}
