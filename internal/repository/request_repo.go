package repository

import (
	"rabet/internal/domain"
	"rabet/internal/models"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *RequestRepository) Create(req *models.Request) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id uint) (*models.Request, error) {
	var req models.Request
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetWithClient loads a request with its owning client, whose contact fields
// are revealed after an unlock.
func (r *RequestRepository) GetWithClient(tx *gorm.DB, id uint) (*models.Request, error) {
	var req models.Request
	if err := r.conn(tx).Preload("Client").First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListPublished returns the open leads visible to providers.
func (r *RequestRepository) ListPublished(category string, page, limit int) ([]models.Request, int64, error) {
	var list []models.Request
	var total int64
	q := r.db.Model(&models.Request{}).Where("status = ?", domain.RequestStatusPublished)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

func (r *RequestRepository) ListByClient(clientID uint, page, limit int) ([]models.Request, int64, error) {
	var list []models.Request
	var total int64
	q := r.db.Model(&models.Request{}).Where("client_id = ?", clientID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// Close marks the client's own request as closed. Returns
// gorm.ErrRecordNotFound when the request does not exist or is not owned by
// the caller.
func (r *RequestRepository) Close(id, clientID uint) error {
	res := r.db.Model(&models.Request{}).
		Where("id = ? AND client_id = ?", id, clientID).
		Update("status", domain.RequestStatusClosed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
