package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeadUnlock joins a Request and a ProviderProfile once the provider has paid
// the unlock fee. The (request_id, provider_id) pair is unique: a refund flips
// Status to refunded but keeps the row, preserving history.
type LeadUnlock struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	RequestID           uint            `gorm:"not null;index:idx_unlock_request_provider,unique" json:"request_id"`
	ProviderID          uint            `gorm:"not null;index:idx_unlock_request_provider,unique" json:"provider_id"`
	Status              string          `gorm:"size:20;not null;index" json:"status"` // completed, refunded
	UnlockFee           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unlock_fee"` // copied from the request at unlock time
	WalletTransactionID uint            `gorm:"not null" json:"wallet_transaction_id"`
	RefundTransactionID *uint           `json:"refund_transaction_id,omitempty"`
	UnlockedAt          time.Time       `json:"unlocked_at"`
	RefundedAt          *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Request  Request         `gorm:"foreignKey:RequestID" json:"-"`
	Provider ProviderProfile `gorm:"foreignKey:ProviderID" json:"-"`
}

func (LeadUnlock) TableName() string {
	return "lead_unlocks"
}
