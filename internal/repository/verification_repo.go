package repository

import (
	"bizlist/internal/models"

	"gorm.io/gorm"
)

type VerificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(v *models.EmailVerification) error {
	return r.db.Create(v).Error
}

func (r *VerificationRepository) LatestForTarget(userID uint, scope string, targetID uint) (*models.EmailVerification, error) {
	var v models.EmailVerification
	err := r.db.Where("user_id = ? AND scope = ? AND target_id = ?", userID, scope, targetID).
		Order("verified_at DESC").First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
