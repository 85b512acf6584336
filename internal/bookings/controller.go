package bookings

import (
	"net/http"

	"ticketbooker/internal/models"
	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/shared/utils/response"
	"ticketbooker/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultPageSize = 10

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}
	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, err.Error())
			return
		}
		seatIDs = append(seatIDs, id)
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), eventID, seatIDs, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to create booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", ToBookingResponse(booking), nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	principal, bookingID, ok := c.principalAndBooking(ctx)
	if !ok {
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), bookingID, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to confirm booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed successfully", ToBookingResponse(booking), nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	principal, bookingID, ok := c.principalAndBooking(ctx)
	if !ok {
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), bookingID, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to cancel booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", ToBookingResponse(booking), nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	principal, bookingID, ok := c.principalAndBooking(ctx)
	if !ok {
		return
	}

	details, err := c.service.GetBooking(ctx.Request.Context(), bookingID, principal)
	if err != nil {
		response.RespondError(ctx, "Failed to get booking", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", ToBookingDetailsResponse(details), nil)
}

// GetMyBookings handles GET /api/v1/bookings/my-bookings?status=&limit=&offset=
func (c *Controller) GetMyBookings(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var query ListBookingsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if query.Limit == 0 {
		query.Limit = defaultPageSize
	}

	list, err := c.service.ListUserBookings(ctx.Request.Context(), principal.UserID, models.BookingStatus(query.Status))
	if err != nil {
		response.RespondError(ctx, "Failed to get user bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully",
		ToBookingListResponse(list, query.Limit, query.Offset), nil)
}

// GetEventBookings handles GET /api/v1/admin/events/:id/bookings
func (c *Controller) GetEventBookings(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	list, err := c.service.ListEventBookings(ctx.Request.Context(), eventID, principal)
	if err != nil {
		response.RespondError(ctx, "Failed to get event bookings", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event bookings retrieved successfully",
		ToBookingListResponse(list, 0, 0), nil)
}

func (c *Controller) principalAndBooking(ctx *gin.Context) (users.Principal, uuid.UUID, bool) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return users.Principal{}, uuid.Nil, false
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return users.Principal{}, uuid.Nil, false
	}
	return principal, bookingID, true
}
