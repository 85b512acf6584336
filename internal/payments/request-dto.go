package payments

type InitiatePaymentRequest struct {
	BookingID     string `json:"booking_id" binding:"required,uuid"`
	PaymentMethod string `json:"payment_method" binding:"required,payment_method"`
}
