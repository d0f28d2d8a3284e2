package models

import (
	"time"

	"gorm.io/gorm"
)

// Producer is a business-directory entry. Listing in the directory requires a
// paid subscription; the subscription payment references the producer ID.
type Producer struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	UserID                uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	BusinessName          string         `gorm:"size:255;not null" json:"business_name"`
	Category              string         `gorm:"size:100;index" json:"category"`
	Phone                 string         `gorm:"size:32" json:"phone"`
	Website               string         `gorm:"size:512" json:"website"`
	SubscriptionCents     int64          `gorm:"not null;default:0" json:"subscription_cents"`
	SubscriptionStatus    string         `gorm:"size:20;not null;default:'NONE';index" json:"subscription_status"` // NONE, ACTIVE, EXPIRED
	SubscriptionExpiresAt *time.Time     `json:"subscription_expires_at"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Producer) TableName() string {
	return "producers"
}
