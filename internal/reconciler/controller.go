package reconciler

import (
	"net/http"

	"ticketbooker/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	reconciler *Reconciler
}

func NewController(r *Reconciler) *Controller {
	return &Controller{reconciler: r}
}

// RunNow triggers an immediate pass outside the schedule
func (c *Controller) RunNow(ctx *gin.Context) {
	report := c.reconciler.RunOnce(ctx.Request.Context())
	if report.Failures > 0 {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Reconciler pass finished with failures", report, report.Errors)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Reconciler pass completed", report, nil)
}

func (c *Controller) GetStatus(ctx *gin.Context) {
	response.RespondJSON(ctx, "success", http.StatusOK, "Reconciler status retrieved", c.reconciler.Status(), nil)
}
