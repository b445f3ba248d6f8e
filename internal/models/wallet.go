package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProviderWallet holds a provider's prepaid balance. Created with balance 0
// when the admin approves the provider profile. The balance is only mutated
// inside a transaction that also appends a WalletTransaction row.
type ProviderWallet struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProviderID uint            `gorm:"uniqueIndex;not null" json:"provider_id"`
	Balance    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	Currency   string          `gorm:"size:3;not null;default:'EGP'" json:"currency"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	Provider ProviderProfile `gorm:"foreignKey:ProviderID" json:"-"`
}

func (ProviderWallet) TableName() string {
	return "provider_wallets"
}
