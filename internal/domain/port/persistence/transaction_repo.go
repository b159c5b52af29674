package persistence

import (
	"context"
	"time"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
)

// TransactionRepository defines the ledger store operations the
// reconciliation core depends on. Implementations must serialize the
// terminal transition through ClaimSettlement's conditional update; plain
// read-then-write status changes are not safe under concurrent drivers.
type TransactionRepository interface {
	// Create saves a new pending transaction, reserving its reference
	//
	// Possible errors:
	// - ErrDuplicateReference: if the reference is already reserved
	// - ErrLedgerWrite: if the ledger store is unreachable
	Create(ctx context.Context, transaction *entity.Transaction) error

	// GetByReference retrieves a transaction by its gateway reference
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction has this reference
	// - ErrLedgerWrite: if the ledger store is unreachable
	GetByReference(ctx context.Context, reference string) (*entity.Transaction, error)

	// GetByID retrieves a transaction by its ledger identifier
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction has this ID
	// - ErrLedgerWrite: if the ledger store is unreachable
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// MarkProcessing moves a pending or retrying transaction into
	// processing. A no-op when the transaction is already terminal or
	// already processing; never an error in that case.
	MarkProcessing(ctx context.Context, reference string) error

	// MarkRetrying moves an unsettled transaction into retrying and
	// increments its retry count, guarded by the retry ceiling. Returns
	// false when the guard rejected the transition (settled, or at the
	// ceiling).
	MarkRetrying(ctx context.Context, reference string, ceiling int) (bool, error)

	// MergeMetadata merges the given keys into the transaction's metadata
	// document. Existing keys not named in meta are preserved.
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction has this reference
	// - ErrLedgerWrite: if the ledger store is unreachable
	MergeMetadata(ctx context.Context, reference string, meta entity.Metadata) error

	// ClaimSettlement atomically moves the transaction into the terminal
	// status and flips its settled flag, merging meta into metadata, all
	// in a single conditional update keyed on "not yet settled". Returns
	// the post-update transaction and true when this caller won the
	// claim; the stored transaction and false when another driver already
	// settled it.
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction has this reference
	// - ErrLedgerWrite: if the ledger store is unreachable
	ClaimSettlement(ctx context.Context, reference string, status entity.TransactionStatus, meta entity.Metadata) (*entity.Transaction, bool, error)

	// FindRetriable returns unsettled transactions eligible for a recovery
	// pass: status failed or retrying below the retry ceiling, plus
	// pending or processing records untouched since staleBefore.
	FindRetriable(ctx context.Context, ceiling int, staleBefore time.Time, limit int) ([]*entity.Transaction, error)

	// FailureStats returns how many transactions settled as failed and how
	// many settled in total since the given time. Read-only; used by
	// monitoring.
	FailureStats(ctx context.Context, since time.Time) (failed int64, total int64, err error)
}
