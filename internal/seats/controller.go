package seats

import (
	"net/http"
	"time"

	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service      Service
	holdDuration time.Duration
}

func NewController(service Service, holdDuration time.Duration) *Controller {
	return &Controller{service: service, holdDuration: holdDuration}
}

// SEAT LOCKING

func (c *Controller) LockSeats(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req LockSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	eventID, seatIDs, err := parseIDs(req.EventID, req.SeatIDs)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.LockSeats(ctx.Request.Context(), eventID, seatIDs, principal.UserID, c.holdDuration)
	if err != nil {
		response.RespondError(ctx, "Failed to lock seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats locked successfully", result, nil)
}

func (c *Controller) UnlockSeats(ctx *gin.Context) {
	principal, err := middleware.PrincipalFromContext(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, err.Error())
		return
	}

	var req UnlockSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}
	_, seatIDs, err := parseIDs("", req.SeatIDs)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.UnlockSeats(ctx.Request.Context(), seatIDs, principal.UserID)
	if err != nil {
		response.RespondError(ctx, "Failed to unlock seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats unlocked successfully", result, nil)
}

// SEAT QUERIES

func (c *Controller) GetSeat(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, err.Error())
		return
	}

	seat, err := c.service.GetSeat(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, "Failed to get seat", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat retrieved successfully", ToSeatResponse(seat), nil)
}

func (c *Controller) GetEventSeats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seats, err := c.service.ListEventSeats(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, "Failed to get seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", ToSeatResponses(seats), nil)
}

func (c *Controller) GetAvailableSeats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	seats, err := c.service.ListAvailableSeats(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondError(ctx, "Failed to get available seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Available seats retrieved successfully", ToSeatResponses(seats), nil)
}

// ADMIN

func (c *Controller) CreateSeats(ctx *gin.Context) {
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

	var req CreateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	seats, err := c.service.CreateSeats(ctx.Request.Context(), eventID, principal, req.Seats)
	if err != nil {
		response.RespondError(ctx, "Failed to create seats", err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seats created successfully", ToSeatResponses(seats), nil)
}

func parseIDs(rawEvent string, rawSeats []string) (uuid.UUID, []uuid.UUID, error) {
	var eventID uuid.UUID
	if rawEvent != "" {
		id, err := uuid.Parse(rawEvent)
		if err != nil {
			return uuid.Nil, nil, err
		}
		eventID = id
	}

	seatIDs := make([]uuid.UUID, 0, len(rawSeats))
	for _, raw := range rawSeats {
		id, err := uuid.Parse(raw)
		if err != nil {
			return uuid.Nil, nil, err
		}
		seatIDs = append(seatIDs, id)
	}
	return eventID, seatIDs, nil
}
