package model

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
)

// Wallet represents the database model for user wallets
type Wallet struct {
	UserID    uint64          `gorm:"primaryKey"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Wallet
func (Wallet) TableName() string {
	return "wallets"
}

// ToEntity converts the database model to a domain entity
func (m *Wallet) ToEntity() *entity.Wallet {
	return &entity.Wallet{
		UserID:    m.UserID,
		Balance:   m.Balance,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// WalletFromEntity converts a domain entity to the database model
func WalletFromEntity(w *entity.Wallet) *Wallet {
	return &Wallet{
		UserID:    w.UserID,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
