package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Request is a client's service request. Providers see published requests as
// leads with the client's contact details hidden until unlocked.
type Request struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClientID    uint            `gorm:"not null;index" json:"client_id"`
	Title       string          `gorm:"size:200;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"size:80;index" json:"category"`
	City        string          `gorm:"size:80" json:"city"`
	UnlockFee   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unlock_fee"`
	Status      string          `gorm:"size:20;not null;default:'published';index" json:"status"` // published, closed
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	Client User `gorm:"foreignKey:ClientID" json:"-"`
}

func (Request) TableName() string {
	return "requests"
}
