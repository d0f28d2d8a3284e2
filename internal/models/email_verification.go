package models

import "time"

// EmailVerification records a successful email validation for a checkout.
// The token itself is issued and checked by the external validation service;
// this row is the local audit trail tying the verification to its target.
type EmailVerification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Email      string    `gorm:"size:255;not null;index" json:"email"`
	Scope      string    `gorm:"size:20;not null" json:"scope"` // CLASSIFIED | SUBSCRIPTION
	TargetID   uint      `gorm:"not null" json:"target_id"`
	Token      string    `gorm:"size:255;not null" json:"-"`
	VerifiedAt time.Time `json:"verified_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}
