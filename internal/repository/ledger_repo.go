package repository

import (
	"rabet/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository writes and reads wallet_transactions. Rows are append-only;
// there is no update or delete method here on purpose.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *LedgerRepository) Create(tx *gorm.DB, entry *models.WalletTransaction) error {
	return r.conn(tx).Create(entry).Error
}

// GetByReference finds the ledger row caused by a given external event.
// Used by the payment webhook to detect replays.
func (r *LedgerRepository) GetByReference(tx *gorm.DB, refType, refID string) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	err := r.conn(tx).Where("reference_type = ? AND reference_id = ?", refType, refID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *LedgerRepository) ListByWallet(walletID uint, page, limit int) ([]models.WalletTransaction, int64, error) {
	var list []models.WalletTransaction
	var total int64
	q := r.db.Model(&models.WalletTransaction{}).Where("wallet_id = ?", walletID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// TotalsByType sums ledger amounts grouped by type for one wallet.
// total_deposited / total_spent in the wallet summary are derived from this,
// not stored.
func (r *LedgerRepository) TotalsByType(walletID uint) (map[string]decimal.Decimal, error) {
	var rows []struct {
		Type  string
		Total decimal.Decimal
	}
	err := r.db.Model(&models.WalletTransaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("wallet_id = ?", walletID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.Type] = row.Total
	}
	return totals, nil
}

// ListAll is the admin transaction listing, optionally filtered by type.
func (r *LedgerRepository) ListAll(txType string, page, limit int) ([]models.WalletTransaction, int64, error) {
	var list []models.WalletTransaction
	var total int64
	q := r.db.Model(&models.WalletTransaction{})
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("id DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}
