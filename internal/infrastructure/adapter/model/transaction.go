package model

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
)

// Transaction represents the database model for payment transactions
type Transaction struct {
	ID         uint64          `gorm:"primaryKey;autoIncrement"`
	Reference  string          `gorm:"uniqueIndex;not null;size:255"`
	UserID     uint64          `gorm:"not null;index"`
	Type       string          `gorm:"not null;size:50"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status     string          `gorm:"not null;size:50;index"`
	SenderType string          `gorm:"not null;size:50"`
	RetryCount int             `gorm:"not null;default:0"`
	Settled    bool            `gorm:"not null;default:false;index"`
	Metadata   JSON            `gorm:"type:jsonb"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// ToEntity converts the database model to a domain entity
func (m *Transaction) ToEntity() *entity.Transaction {
	return &entity.Transaction{
		ID:         m.ID,
		Reference:  m.Reference,
		UserID:     m.UserID,
		Type:       entity.TransactionType(m.Type),
		Amount:     m.Amount,
		Status:     entity.TransactionStatus(m.Status),
		SenderType: entity.SenderType(m.SenderType),
		RetryCount: m.RetryCount,
		Settled:    m.Settled,
		Metadata:   entity.Metadata(m.Metadata),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// TransactionFromEntity converts a domain entity to the database model
func TransactionFromEntity(txn *entity.Transaction) *Transaction {
	return &Transaction{
		ID:         txn.ID,
		Reference:  txn.Reference,
		UserID:     txn.UserID,
		Type:       string(txn.Type),
		Amount:     txn.Amount,
		Status:     string(txn.Status),
		SenderType: string(txn.SenderType),
		RetryCount: txn.RetryCount,
		Settled:    txn.Settled,
		Metadata:   JSON(txn.Metadata),
		CreatedAt:  txn.CreatedAt,
		UpdatedAt:  txn.UpdatedAt,
	}
}
