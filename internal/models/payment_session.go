package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentSession tracks a mock-gateway deposit from initiation to webhook
// confirmation. Crediting idempotency is enforced on the ledger side by
// looking up reference_id = session_id, not by this row's status.
type PaymentSession struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	SessionID string          `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	WalletID  uint            `gorm:"not null;index" json:"wallet_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status    string          `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending, success, failed
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`

	Wallet ProviderWallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}
