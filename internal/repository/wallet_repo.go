package repository

import (
	"rabet/internal/domain"
	"rabet/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// conn returns the transaction handle when one is passed, the root handle
// otherwise. Ledger-mutating calls always run with a tx.
func (r *WalletRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// CreateForProvider opens a zero-balance wallet. Called once, at provider
// approval time.
func (r *WalletRepository) CreateForProvider(providerID uint) (*models.ProviderWallet, error) {
	w := &models.ProviderWallet{
		ProviderID: providerID,
		Balance:    decimal.Zero,
		Currency:   domain.DefaultCurrency,
	}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) GetByProviderID(tx *gorm.DB, providerID uint) (*models.ProviderWallet, error) {
	var w models.ProviderWallet
	if err := r.conn(tx).Where("provider_id = ?", providerID).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WalletRepository) GetByID(tx *gorm.DB, id uint) (*models.ProviderWallet, error) {
	var w models.ProviderWallet
	if err := r.conn(tx).First(&w, id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Debit subtracts amount with a guarded single-statement update
// (balance >= amount), so concurrent debits cannot overdraw the wallet.
// Returns the re-read wallet after the update.
func (r *WalletRepository) Debit(tx *gorm.DB, walletID uint, amount decimal.Decimal) (*models.ProviderWallet, error) {
	res := r.conn(tx).Model(&models.ProviderWallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInsufficientBalance
	}
	return r.GetByID(tx, walletID)
}

// Credit applies a signed delta to the balance in a single statement.
// Admin adjustments may pass a negative delta and take the balance below
// zero; all other callers pass positive amounts.
func (r *WalletRepository) Credit(tx *gorm.DB, walletID uint, delta decimal.Decimal) (*models.ProviderWallet, error) {
	res := r.conn(tx).Model(&models.ProviderWallet{}).
		Where("id = ?", walletID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(tx, walletID)
}
