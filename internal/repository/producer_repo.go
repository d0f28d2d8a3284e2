package repository

import (
	"time"

	"bizlist/internal/domain"
	"bizlist/internal/models"

	"gorm.io/gorm"
)

type ProducerRepository struct {
	db *gorm.DB
}

func NewProducerRepository(db *gorm.DB) *ProducerRepository {
	return &ProducerRepository{db: db}
}

func (r *ProducerRepository) Create(p *models.Producer) error {
	return r.db.Create(p).Error
}

func (r *ProducerRepository) GetByID(id uint) (*models.Producer, error) {
	var p models.Producer
	err := r.db.First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProducerRepository) GetByUserID(userID uint) (*models.Producer, error) {
	var p models.Producer
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProducerRepository) Update(p *models.Producer) error {
	return r.db.Save(p).Error
}

// ActivateSubscription marks the producer's directory subscription paid
// through the standard term.
func (r *ProducerRepository) ActivateSubscription(id uint, now time.Time) error {
	expires := now.AddDate(0, 0, domain.SubscriptionTermDays)
	return r.db.Model(&models.Producer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"subscription_status":     domain.SubscriptionActive,
		"subscription_expires_at": expires,
	}).Error
}
