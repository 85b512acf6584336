package payments

import (
	"net/http"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/shared/utils/response"
	"ticketbooker/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// InitiatePayment handles POST /api/v1/payments/initiate
func (c *Controller) InitiatePayment(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req InitiatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	payment, err := c.service.InitiatePayment(ctx.Request.Context(), bookingID, principal.UserID, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		response.RespondError(ctx, "Failed to initiate payment", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment initiated successfully", ToPaymentResponse(payment), nil)
}

// ProcessPayment handles POST /api/v1/payments/:id/process
func (c *Controller) ProcessPayment(ctx *gin.Context) {
	principal, paymentID, ok := principalAndID(ctx, "Invalid payment ID")
	if !ok {
		return
	}

	payment, err := c.service.ProcessPayment(ctx.Request.Context(), paymentID, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to process payment", err)
		return
	}

	if payment.Status == models.PaymentFailed {
		response.RespondJSON(ctx, "error", http.StatusPaymentRequired,
			"Payment failed. Please try again or use a different payment method", ToPaymentResponse(payment), nil)
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Payment processed successfully", ToPaymentResponse(payment), nil)
}

// RetryPayment handles POST /api/v1/payments/:id/retry
func (c *Controller) RetryPayment(ctx *gin.Context) {
	principal, paymentID, ok := principalAndID(ctx, "Invalid payment ID")
	if !ok {
		return
	}

	payment, err := c.service.RetryPayment(ctx.Request.Context(), paymentID, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to retry payment", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Payment retry initiated", ToPaymentResponse(payment), nil)
}

// GetPaymentStatus handles GET /api/v1/payments/:id/status
func (c *Controller) GetPaymentStatus(ctx *gin.Context) {
	principal, paymentID, ok := principalAndID(ctx, "Invalid payment ID")
	if !ok {
		return
	}

	details, err := c.service.GetPaymentStatus(ctx.Request.Context(), paymentID, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to get payment", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment retrieved successfully", ToPaymentDetailsResponse(details), nil)
}

// GetMyPayments handles GET /api/v1/payments/my-payments
func (c *Controller) GetMyPayments(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	list, err := c.service.ListUserPayments(ctx.Request.Context(), principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to get payments", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", ToPaymentResponses(list), nil)
}

// GetBookingPayments handles GET /api/v1/payments/booking/:id
func (c *Controller) GetBookingPayments(ctx *gin.Context) {
	principal, bookingID, ok := principalAndID(ctx, "Invalid booking ID")
	if !ok {
		return
	}

	list, err := c.service.ListBookingPayments(ctx.Request.Context(), bookingID, principal)
	if err != nil {
		response.RespondError(ctx, "Failed to get booking payments", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payments retrieved successfully", ToPaymentResponses(list), nil)
}

// GetEventPaymentStats handles GET /api/v1/admin/events/:id/payments/stats
func (c *Controller) GetEventPaymentStats(ctx *gin.Context) {
	principal, eventID, ok := principalAndID(ctx, "Invalid event ID")
	if !ok {
		return
	}

	stats, err := c.service.EventPaymentStats(ctx.Request.Context(), eventID, principal)
	if err != nil {
		response.RespondError(ctx, "Failed to get payment statistics", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment statistics retrieved successfully", stats, nil)
}

func principalAndID(ctx *gin.Context, invalidMsg string) (users.Principal, uuid.UUID, bool) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return users.Principal{}, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, invalidMsg, nil, err.Error())
		return users.Principal{}, uuid.Nil, false
	}
	return principal, id, true
}
