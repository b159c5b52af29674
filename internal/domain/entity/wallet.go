package entity

import (
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	tport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
)

// Wallet holds one balance per user. The balance is mutated only as a side
// effect of a transaction transitioning into a terminal state, or by the
// hold taken when a withdrawal is initiated.
type Wallet struct {
	UserID    uint64
	Balance   decimal.Decimal // Non-negative, whole currency units
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewWallet creates a wallet with a starting balance
func NewWallet(userID uint64, balance decimal.Decimal, timeProvider tport.TimeProvider) (*Wallet, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if balance.IsNegative() {
		return nil, errs.ErrNegativeBalance
	}

	now := timeProvider.Now()
	return &Wallet{
		UserID:    userID,
		Balance:   balance,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanDebit reports whether the wallet covers amount
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
