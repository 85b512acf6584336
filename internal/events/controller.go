package events

import (
	"net/http"

	"ticketbooker/internal/shared/middleware"
	"ticketbooker/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// PUBLIC

func (ctrl *Controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	if query.Page == 0 {
		query.Page = defaultPage
	}
	if query.Limit == 0 {
		query.Limit = defaultLimit
	}

	list, err := ctrl.service.ListEvents(c.Request.Context(), ListFilter{
		TicketType: query.TicketType,
		Venue:      query.Venue,
		Search:     query.Search,
	})
	if err != nil {
		response.RespondError(c, "Failed to retrieve events", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", ToPaginatedEvents(list, query.Page, query.Limit), nil)
}

func (ctrl *Controller) GetEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := ctrl.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, "Failed to retrieve event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", ToEventResponse(event), nil)
}

func (ctrl *Controller) GetEventStats(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	stats, err := ctrl.service.GetEventStats(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, "Failed to retrieve event stats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event stats retrieved successfully", stats, nil)
}

// ADMIN

func (ctrl *Controller) CreateEvent(c *gin.Context) {
	principal, err := middleware.PrincipalFromContext(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, err.Error())
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), principal, req)
	if err != nil {
		response.RespondError(c, "Failed to create event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", ToEventResponse(event), nil)
}

func (ctrl *Controller) UpdateEvent(c *gin.Context) {
	principal, err := middleware.PrincipalFromContext(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, err.Error())
		return
	}
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), eventID, principal, req)
	if err != nil {
		response.RespondError(c, "Failed to update event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", ToEventResponse(event), nil)
}

func (ctrl *Controller) DeleteEvent(c *gin.Context) {
	principal, err := middleware.PrincipalFromContext(c)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Admin not authenticated", nil, err.Error())
		return
	}
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteEvent(c.Request.Context(), eventID, principal); err != nil {
		response.RespondError(c, "Failed to delete event", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event deleted successfully", nil, nil)
}

func eventIDParam(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return uuid.Nil, false
	}
	return eventID, true
}
