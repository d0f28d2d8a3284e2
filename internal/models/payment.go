package models

import (
	"time"

	"gorm.io/gorm"
)

type Payment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Kind           string         `gorm:"size:20;not null;index" json:"kind"` // CLASSIFIED | SUBSCRIPTION
	ReferenceID    uint           `gorm:"not null;index" json:"reference_id"` // ad ID or producer ID
	AmountCents    int64          `gorm:"not null" json:"amount_cents"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	Provider       string         `gorm:"size:50;not null" json:"provider"`
	ProviderRef    string         `gorm:"size:255;uniqueIndex" json:"provider_ref"` // our order ID at the settlement service
	Status         string         `gorm:"size:20;not null;index" json:"status"`     // PENDING, COMPLETED, FAILED, REFUNDED
	IdempotencyKey string         `gorm:"size:255;uniqueIndex" json:"-"`
	OrderRef       string         `gorm:"size:255" json:"order_ref"`
	PaymentRef     string         `gorm:"size:255" json:"payment_ref"`
	ReceiptNumber  string         `gorm:"size:255" json:"receipt_number"`
	FailureReason  string         `gorm:"size:512" json:"failure_reason,omitempty"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
