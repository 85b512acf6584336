package bookings

type CreateBookingRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

type ListBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED EXPIRED"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}
