package models

import (
	"time"

	"gorm.io/gorm"
)

// ClassifiedAd is a paid classified placement. The ad stays PENDING_PAYMENT
// until its placement fee clears, then gets published for AdPlacementDays.
type ClassifiedAd struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Title          string         `gorm:"size:255;not null" json:"title"`
	Body           string         `gorm:"type:text" json:"body"`
	Category       string         `gorm:"size:100;index" json:"category"`
	PlacementCents int64          `gorm:"not null" json:"placement_cents"`
	Status         string         `gorm:"size:20;not null;default:'PENDING_PAYMENT';index" json:"status"`
	PublishedAt    *time.Time     `json:"published_at"`
	ExpiresAt      *time.Time     `json:"expires_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ClassifiedAd) TableName() string {
	return "classified_ads"
}
