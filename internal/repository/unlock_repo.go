package repository

import (
	"errors"
	"time"

	"rabet/internal/domain"
	"rabet/internal/models"

	"gorm.io/gorm"
)

type UnlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

func (r *UnlockRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *UnlockRepository) Create(tx *gorm.DB, u *models.LeadUnlock) error {
	return r.conn(tx).Create(u).Error
}

func (r *UnlockRepository) GetByID(tx *gorm.DB, id uint) (*models.LeadUnlock, error) {
	var u models.LeadUnlock
	err := r.conn(tx).Preload("Request").Preload("Provider").First(&u, id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByPair returns the unlock row for a (request, provider) pair regardless
// of status, or nil when none exists. The pair is unique, so at most one row
// matches.
func (r *UnlockRepository) FindByPair(tx *gorm.DB, requestID, providerID uint) (*models.LeadUnlock, error) {
	var u models.LeadUnlock
	err := r.conn(tx).
		Where("request_id = ? AND provider_id = ?", requestID, providerID).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// HasCompleted reports whether the provider holds an active (not refunded)
// unlock on the request. Gates contact visibility.
func (r *UnlockRepository) HasCompleted(requestID, providerID uint) (bool, error) {
	u, err := r.FindByPair(nil, requestID, providerID)
	if err != nil {
		return false, err
	}
	return u != nil && u.Status == domain.UnlockStatusCompleted, nil
}

// MarkRefunded flips the unlock to refunded and records the compensating
// ledger row. The row itself is kept; refunds never delete history.
func (r *UnlockRepository) MarkRefunded(tx *gorm.DB, id uint, refundTxID uint, at time.Time) error {
	return r.conn(tx).Model(&models.LeadUnlock{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":                domain.UnlockStatusRefunded,
		"refund_transaction_id": refundTxID,
		"refunded_at":           at,
	}).Error
}

func (r *UnlockRepository) ListByProvider(providerID uint, page, limit int) ([]models.LeadUnlock, int64, error) {
	var list []models.LeadUnlock
	var total int64
	q := r.db.Model(&models.LeadUnlock{}).Where("provider_id = ?", providerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Request").Preload("Request.Client").
		Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// ListAll is the admin unlock listing, optionally filtered by status.
func (r *UnlockRepository) ListAll(status string, page, limit int) ([]models.LeadUnlock, int64, error) {
	var list []models.LeadUnlock
	var total int64
	q := r.db.Model(&models.LeadUnlock{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Request").Preload("Provider").
		Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
