package payments

import (
	"ticketbooker/internal/models"

	"github.com/shopspring/decimal"
)

// PaymentDetails is a payment together with the booking it settles
type PaymentDetails struct {
	Payment models.Payment
	Booking *models.Booking
}

// Stats summarizes the payments recorded against one event
type Stats struct {
	TotalPayments      int             `json:"total_payment_count"`
	SuccessfulPayments int             `json:"successful_payment_count"`
	FailedPayments     int             `json:"failed_payment_count"`
	PendingPayments    int             `json:"pending_payment_count"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	AverageTransaction decimal.Decimal `json:"average_transaction_amount"`
}
