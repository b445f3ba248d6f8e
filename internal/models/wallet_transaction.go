package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransaction is an append-only ledger row. Amount is always a positive
// magnitude; the direction is implied by Type. BalanceBefore/BalanceAfter are
// snapshots taken at write time, never derived at read time. Rows are never
// updated or deleted.
type WalletTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	WalletID      uint            `gorm:"not null;index" json:"wallet_id"`
	Type          string          `gorm:"size:20;not null;index" json:"type"` // deposit, debit, refund
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_after"`
	ReferenceType string          `gorm:"size:40;index:idx_wallet_tx_ref" json:"reference_type"`
	ReferenceID   string          `gorm:"size:64;index:idx_wallet_tx_ref" json:"reference_id"`
	Description   string          `gorm:"size:255" json:"description"`
	Metadata      string          `gorm:"type:text" json:"metadata,omitempty"` // JSON
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	Wallet ProviderWallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}
