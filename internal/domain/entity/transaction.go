package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	tport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
)

// TransactionType classifies the direction of a monetary movement
type TransactionType string

// Transaction types
const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypePayment    TransactionType = "payment"
)

// SenderType tags who originated the transaction (informational only)
type SenderType string

// Sender types
const (
	SenderUser     SenderType = "user"
	SenderProvider SenderType = "provider"
)

// TransactionStatus defines possible status values for a transaction
type TransactionStatus string

// TransactionStatus constants
const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusRetrying   TransactionStatus = "retrying"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
)

// Transaction represents one monetary movement against a user's wallet.
// Records are never deleted; terminal states are retained for audit.
type Transaction struct {
	ID         uint64            // Unique identifier assigned by the ledger store
	Reference  string            // Unique string correlating with the gateway's record
	UserID     uint64            // Owning account identifier
	Type       TransactionType   // deposit, withdrawal or payment
	Amount     decimal.Decimal   // Positive amount in whole currency units
	Status     TransactionStatus // Current state machine position
	SenderType SenderType        // Who originated the transaction
	RetryCount int               // Recovery-driven reconciliation attempts so far
	Settled    bool              // Terminal transition claimed; balance effect owned
	Metadata   Metadata          // Open, additive audit document
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewTransaction creates a new pending transaction with basic validation
func NewTransaction(
	userID uint64,
	reference string,
	txType TransactionType,
	amount decimal.Decimal,
	senderType SenderType,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if userID == 0 {
		return nil, errs.ErrInvalidUserID
	}
	if reference == "" {
		return nil, errs.ErrInvalidReference
	}
	if !isValidType(txType) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)
	}
	if !amount.IsPositive() {
		return nil, errs.ErrInvalidAmount
	}
	if senderType == "" {
		senderType = SenderUser
	}

	now := timeProvider.Now()
	return &Transaction{
		Reference:  reference,
		UserID:     userID,
		Type:       txType,
		Amount:     amount,
		Status:     StatusPending,
		SenderType: senderType,
		Metadata:   Metadata{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// IsTerminal reports whether the transaction reached a final state
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}

// SettlementDelta returns the wallet balance change that accompanies a
// transition into target. Deposits and payments credit on completion.
// Withdrawals were held (debited) at initiation, so a failed or reversed
// transfer refunds the hold and a successful one needs no further change.
func (t *Transaction) SettlementDelta(target TransactionStatus) decimal.Decimal {
	switch {
	case target == StatusCompleted && (t.Type == TypeDeposit || t.Type == TypePayment):
		return t.Amount
	case target == StatusFailed && t.Type == TypeWithdrawal:
		return t.Amount
	default:
		return decimal.Zero
	}
}

// isValidType validates the transaction type
func isValidType(txType TransactionType) bool {
	return txType == TypeDeposit || txType == TypeWithdrawal || txType == TypePayment
}
