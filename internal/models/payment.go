package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is one attempt to settle a confirmed booking
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID     uuid.UUID       `gorm:"type:uuid;index;not null" json:"booking_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus   `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	TransactionID *string         `gorm:"uniqueIndex" json:"transaction_id,omitempty"`
	FailureReason *string         `json:"failure_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// MarkSucceeded settles the payment as SUCCESS
func (p *Payment) MarkSucceeded(transactionID string, now time.Time) {
	p.Status = PaymentSuccess
	p.TransactionID = &transactionID
	p.FailureReason = nil
	p.SettledAt = &now
	p.UpdatedAt = now
}

// MarkFailed settles the payment as FAILED
func (p *Payment) MarkFailed(reason string, now time.Time) {
	p.Status = PaymentFailed
	p.TransactionID = nil
	p.FailureReason = &reason
	p.SettledAt = &now
	p.UpdatedAt = now
}

func (p *Payment) Clone() *Payment {
	c := *p
	c.TransactionID = cloneString(p.TransactionID)
	c.FailureReason = cloneString(p.FailureReason)
	c.SettledAt = cloneTime(p.SettledAt)
	return &c
}
