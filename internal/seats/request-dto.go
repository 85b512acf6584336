package seats

import (
	"github.com/shopspring/decimal"
)

type LockSeatsRequest struct {
	EventID string   `json:"event_id" binding:"required,uuid"`
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,max=20,dive,uuid"`
}

type UnlockSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}

// SeatSpec describes one seat to create during event setup
type SeatSpec struct {
	SeatNumber string          `json:"seat_number" binding:"required,max=16"`
	Row        string          `json:"row" binding:"required,max=8"`
	Column     int             `json:"column" binding:"min=0"`
	Price      decimal.Decimal `json:"price"`
}

type CreateSeatsRequest struct {
	Seats []SeatSpec `json:"seats" binding:"required,min=1,dive"`
}
