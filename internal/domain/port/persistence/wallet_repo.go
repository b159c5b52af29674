package persistence

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
)

// WalletRepository defines wallet balance operations. Credit and Debit are
// atomic RPC-style mutations executed as single SQL expressions, never as
// read-modify-write round trips.
type WalletRepository interface {
	// GetByUserID retrieves a user's wallet
	//
	// Possible errors:
	// - ErrWalletNotFound: if the user has no wallet record
	// - ErrLedgerWrite: if the ledger store is unreachable
	GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error)

	// Create creates a wallet record
	//
	// Possible errors:
	// - ErrLedgerWrite: if the ledger store is unreachable
	Create(ctx context.Context, wallet *entity.Wallet) error

	// Credit atomically increases the balance and returns the new balance
	//
	// Possible errors:
	// - ErrWalletNotFound: if the user has no wallet record
	// - ErrWalletMutation: if the ledger store rejected the mutation
	Credit(ctx context.Context, userID uint64, amount decimal.Decimal) (decimal.Decimal, error)

	// Debit atomically decreases the balance and returns the new balance.
	// The mutation is guarded by balance sufficiency in the same statement.
	//
	// Possible errors:
	// - ErrInsufficientBalance: if the balance does not cover amount
	// - ErrWalletNotFound: if the user has no wallet record
	// - ErrWalletMutation: if the ledger store rejected the mutation
	Debit(ctx context.Context, userID uint64, amount decimal.Decimal) (decimal.Decimal, error)
}
