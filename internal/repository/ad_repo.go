package repository

import (
	"time"

	"bizlist/internal/domain"
	"bizlist/internal/models"

	"gorm.io/gorm"
)

type AdRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

func (r *AdRepository) Create(a *models.ClassifiedAd) error {
	return r.db.Create(a).Error
}

func (r *AdRepository) GetByID(id uint) (*models.ClassifiedAd, error) {
	var a models.ClassifiedAd
	err := r.db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdRepository) Update(a *models.ClassifiedAd) error {
	return r.db.Save(a).Error
}

// Publish flips a paid ad live for the standard placement window.
func (r *AdRepository) Publish(id uint, now time.Time) error {
	expires := now.AddDate(0, 0, domain.AdPlacementDays)
	return r.db.Model(&models.ClassifiedAd{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":       domain.AdStatusPublished,
		"published_at": now,
		"expires_at":   expires,
	}).Error
}
