package payments

import (
	"time"

	"ticketbooker/internal/models"

	"github.com/shopspring/decimal"
)

type PaymentResponse struct {
	ID            string          `json:"id"`
	BookingID     string          `json:"booking_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}

type PaymentDetailsResponse struct {
	PaymentResponse
	BookingRef    string `json:"booking_ref,omitempty"`
	BookingStatus string `json:"booking_status,omitempty"`
}

func ToPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		BookingID:     p.BookingID.String(),
		Amount:        p.Amount,
		PaymentMethod: string(p.Method),
		Status:        p.Status.String(),
		TransactionID: p.TransactionID,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
		SettledAt:     p.SettledAt,
	}
}

func ToPaymentResponses(list []models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for i := range list {
		out = append(out, ToPaymentResponse(&list[i]))
	}
	return out
}

func ToPaymentDetailsResponse(d *PaymentDetails) PaymentDetailsResponse {
	resp := PaymentDetailsResponse{PaymentResponse: ToPaymentResponse(&d.Payment)}
	if d.Booking != nil {
		resp.BookingRef = d.Booking.BookingRef
		resp.BookingStatus = d.Booking.Status.String()
	}
	return resp
}
