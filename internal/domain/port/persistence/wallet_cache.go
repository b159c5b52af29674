package persistence

import (
	"context"

	"github.com/shopspring/decimal"
)

// WalletCache is a best-effort read cache for wallet balances. Misses and
// cache failures fall through to the ledger store; implementations must
// never let a cache error block a balance read or mutation.
type WalletCache interface {
	// GetBalance returns the cached balance and whether it was present
	GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, bool)

	// SetBalance stores the balance for a user
	SetBalance(ctx context.Context, userID uint64, balance decimal.Decimal)

	// Invalidate drops the cached balance after a mutation
	Invalidate(ctx context.Context, userID uint64)
}
