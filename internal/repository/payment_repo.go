package repository

import (
	"rabet/internal/models"

	"gorm.io/gorm"
)

type PaymentSessionRepository struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) *PaymentSessionRepository {
	return &PaymentSessionRepository{db: db}
}

func (r *PaymentSessionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *PaymentSessionRepository) Create(s *models.PaymentSession) error {
	return r.db.Create(s).Error
}

func (r *PaymentSessionRepository) GetBySessionID(tx *gorm.DB, sessionID string) (*models.PaymentSession, error) {
	var s models.PaymentSession
	if err := r.conn(tx).Where("session_id = ?", sessionID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PaymentSessionRepository) MarkStatus(tx *gorm.DB, sessionID, status string) error {
	return r.conn(tx).Model(&models.PaymentSession{}).
		Where("session_id = ?", sessionID).
		Update("status", status).Error
}
