package models

import (
	"time"

	"gorm.io/gorm"
)

type ProviderProfile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string         `gorm:"size:160" json:"company_name"`
	Bio         string         `gorm:"type:text" json:"bio"`
	Status      string         `gorm:"size:20;not null;default:'pending';index" json:"status"` // pending, approved, rejected
	ApprovedAt  *time.Time     `json:"approved_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User   User            `gorm:"foreignKey:UserID" json:"-"`
	Wallet *ProviderWallet `gorm:"foreignKey:ProviderID" json:"wallet,omitempty"`
}

func (ProviderProfile) TableName() string {
	return "provider_profiles"
}
