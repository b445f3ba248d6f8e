package repository

import (
	"time"

	"rabet/internal/domain"
	"rabet/internal/models"

	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) Create(p *models.ProviderProfile) error {
	return r.db.Create(p).Error
}

func (r *ProviderRepository) GetByID(id uint) (*models.ProviderProfile, error) {
	var p models.ProviderProfile
	if err := r.db.Preload("User").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) GetByUserID(userID uint) (*models.ProviderProfile, error) {
	var p models.ProviderProfile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) Approve(id uint, at time.Time) error {
	return r.db.Model(&models.ProviderProfile{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      domain.ProviderStatusApproved,
		"approved_at": at,
	}).Error
}

func (r *ProviderRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.ProviderProfile{}).Where("id = ?", id).Update("status", status).Error
}

func (r *ProviderRepository) List(status string, page, limit int) ([]models.ProviderProfile, int64, error) {
	var list []models.ProviderProfile
	var total int64
	q := r.db.Model(&models.ProviderProfile{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("User").Preload("Wallet").
		Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
