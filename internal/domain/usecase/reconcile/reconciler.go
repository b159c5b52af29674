package reconcile

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/metrics"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/retry"
)

// Metadata keys written by the reconciler
const (
	metaPaymentStatus   = "payment_status"
	metaGatewayResponse = "gateway_response"
	metaSettledAt       = "settled_at"
	metaBalanceApplied  = "balance_applied"
	metaBalanceAfter    = "balance_after"
)

// Reconciler drives a transaction from pending to a terminal state by
// reading the gateway's truth and applying it to the ledger. Polling,
// webhooks and the recovery sweeper all converge on Apply, so the status
// mapping lives in exactly one place and every driver shares the same
// idempotency guarantees.
type Reconciler struct {
	transactionRepo persistence.TransactionRepository
	walletRepo      persistence.WalletRepository
	walletCache     persistence.WalletCache
	gatewayClient   gateway.Client
	executor        *retry.Executor
	notifier        alert.Notifier
	recorder        metrics.Recorder
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider

	// Failed transactions at or above this amount raise an ops alert
	highValueThreshold decimal.Decimal
}

// NewReconciler creates a reconciler. walletCache, notifier and recorder
// may be nil; the corresponding side channels are then skipped.
func NewReconciler(
	transactionRepo persistence.TransactionRepository,
	walletRepo persistence.WalletRepository,
	walletCache persistence.WalletCache,
	gatewayClient gateway.Client,
	executor *retry.Executor,
	notifier alert.Notifier,
	recorder metrics.Recorder,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	highValueThreshold decimal.Decimal,
) *Reconciler {
	return &Reconciler{
		transactionRepo:    transactionRepo,
		walletRepo:         walletRepo,
		walletCache:        walletCache,
		gatewayClient:      gatewayClient,
		executor:           executor.WithRetryable(errs.IsRetryable),
		notifier:           notifier,
		recorder:           recorder,
		logger:             logger,
		timeProvider:       timeProvider,
		highValueThreshold: highValueThreshold,
	}
}

// Reconcile is the polling entry point: fetch the transaction, read the
// gateway's current status for it and apply the outcome. Re-invoking on an
// already-terminal transaction is a no-op returning the stored state.
func (r *Reconciler) Reconcile(ctx context.Context, reference string) (*entity.Transaction, error) {
	txn, err := r.fetch(ctx, reference)
	if err != nil {
		return nil, err
	}

	if txn.IsTerminal() {
		r.logger.Debug("Transaction already terminal, returning stored state", map[string]any{
			"reference": reference,
			"status":    txn.Status,
		})
		return txn, nil
	}

	if err := r.markProcessing(ctx, txn); err != nil {
		return nil, err
	}

	result, err := r.verify(ctx, txn)
	if err != nil {
		// Ambiguous outcome: attempts exhausted without an answer. The
		// transaction stays non-terminal for a later recovery pass rather
		// than being guessed at.
		r.logger.Error("Gateway verification exhausted", map[string]any{
			"reference": reference,
			"user_id":   txn.UserID,
			"type":      txn.Type,
			"amount":    txn.Amount.String(),
			"error":     err.Error(),
		})
		return txn, errs.NewSettlementError(reference, txn.UserID, "verify", txn.Amount.String(), errs.ErrVerification)
	}

	return r.Apply(ctx, txn, result.Status, result.Raw)
}

// Apply is the shared transition function from an observed gateway status
// to the next local state. Both the polling path and the webhook path call
// it over the same conditional-update primitive.
//
// Mapping: success -> completed; failed or reversed -> failed; anything
// else leaves the transaction non-terminal and the caller is expected to
// retry later.
func (r *Reconciler) Apply(ctx context.Context, txn *entity.Transaction, observed gateway.Status, raw entity.Metadata) (*entity.Transaction, error) {
	target, terminal := mapStatus(observed)
	if !terminal {
		// Keep the audit trail current even without a transition.
		r.recordObservation(ctx, txn, observed, raw)
		return txn, nil
	}

	meta := entity.Metadata{
		metaPaymentStatus: string(observed),
		metaSettledAt:     r.timeProvider.Now().UTC(),
	}
	if len(raw) > 0 {
		meta[metaGatewayResponse] = map[string]any(raw)
	}

	delta := txn.SettlementDelta(target)
	if delta.IsPositive() {
		meta[metaBalanceApplied] = false
	}

	claimed, won, err := r.claim(ctx, txn, target, meta)
	if err != nil {
		return nil, err
	}
	if !won {
		// A concurrent driver reached the terminal transition first; this
		// invocation must not touch the wallet again.
		r.logger.Info("Settlement already claimed by another driver", map[string]any{
			"reference": txn.Reference,
			"status":    claimed.Status,
		})
		return claimed, nil
	}

	if r.recorder != nil {
		r.recorder.RecordSettlement(string(txn.Type), string(target))
	}

	r.logger.Info("Transaction settled", map[string]any{
		"reference": txn.Reference,
		"user_id":   txn.UserID,
		"type":      txn.Type,
		"amount":    txn.Amount.String(),
		"status":    target,
	})

	if delta.IsPositive() {
		if err := r.applyBalance(ctx, claimed, delta); err != nil {
			return claimed, err
		}
	}

	if target == entity.StatusFailed {
		r.alertFailure(ctx, claimed)
	}

	return claimed, nil
}

// fetch loads the transaction, retrying transient ledger failures
func (r *Reconciler) fetch(ctx context.Context, reference string) (*entity.Transaction, error) {
	var txn *entity.Transaction
	err := r.executor.Do(ctx, "ledger_fetch", func(ctx context.Context) error {
		var opErr error
		txn, opErr = r.transactionRepo.GetByReference(ctx, reference)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// markProcessing records that verification is being attempted
func (r *Reconciler) markProcessing(ctx context.Context, txn *entity.Transaction) error {
	err := r.executor.Do(ctx, "ledger_mark_processing", func(ctx context.Context) error {
		return r.transactionRepo.MarkProcessing(ctx, txn.Reference)
	})
	if err != nil {
		r.logger.Error("Failed to mark transaction processing", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"error":     err.Error(),
		})
		return errs.NewSettlementError(txn.Reference, txn.UserID, "mark_processing", txn.Amount.String(), err)
	}
	if txn.Status == entity.StatusPending || txn.Status == entity.StatusRetrying {
		txn.Status = entity.StatusProcessing
	}
	return nil
}

// verify reads the gateway's current truth for the transaction, using the
// verify operation matching its type
func (r *Reconciler) verify(ctx context.Context, txn *entity.Transaction) (*gateway.VerifyResult, error) {
	var result *gateway.VerifyResult
	err := r.executor.Do(ctx, "gateway_verify", func(ctx context.Context) error {
		var opErr error
		if txn.Type == entity.TypeWithdrawal {
			result, opErr = r.gatewayClient.VerifyTransfer(ctx, txn.Reference)
		} else {
			result, opErr = r.gatewayClient.VerifyCharge(ctx, txn.Reference)
		}
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claim performs the atomic terminal transition
func (r *Reconciler) claim(ctx context.Context, txn *entity.Transaction, target entity.TransactionStatus, meta entity.Metadata) (*entity.Transaction, bool, error) {
	var claimed *entity.Transaction
	var won bool
	err := r.executor.Do(ctx, "ledger_claim_settlement", func(ctx context.Context) error {
		var opErr error
		claimed, won, opErr = r.transactionRepo.ClaimSettlement(ctx, txn.Reference, target, meta)
		return opErr
	})
	if err != nil {
		r.logger.Error("Failed to claim settlement", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"target":    target,
			"amount":    txn.Amount.String(),
			"error":     err.Error(),
		})
		return nil, false, errs.NewSettlementError(txn.Reference, txn.UserID, "claim", txn.Amount.String(), err)
	}
	return claimed, won, nil
}

// applyBalance credits the wallet after a won claim. The status write is
// already durable at this point; a credit failure leaves the transaction
// flagged balance_applied=false for operator reconciliation.
func (r *Reconciler) applyBalance(ctx context.Context, txn *entity.Transaction, delta decimal.Decimal) error {
	var balance decimal.Decimal
	err := r.executor.Do(ctx, "wallet_credit", func(ctx context.Context) error {
		var opErr error
		balance, opErr = r.walletRepo.Credit(ctx, txn.UserID, delta)
		return opErr
	})
	if err != nil {
		r.logger.Error("Wallet mutation failed after settlement claim", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"amount":    delta.String(),
			"status":    txn.Status,
			"error":     err.Error(),
		})
		r.notify(ctx, alert.Alert{
			Severity:  alert.SeverityCritical,
			Kind:      "wallet_mutation",
			Message:   "settlement claimed but wallet credit failed; manual reconciliation required",
			Reference: txn.Reference,
			Fields: map[string]any{
				"user_id": txn.UserID,
				"amount":  delta.String(),
			},
		})
		return errs.NewSettlementError(txn.Reference, txn.UserID, "wallet_credit", delta.String(), errs.ErrWalletMutation)
	}

	if r.walletCache != nil {
		r.walletCache.Invalidate(ctx, txn.UserID)
	}

	// Best effort: the credit itself is already durable.
	if mergeErr := r.transactionRepo.MergeMetadata(ctx, txn.Reference, entity.Metadata{
		metaBalanceApplied: true,
		metaBalanceAfter:   balance.String(),
	}); mergeErr != nil {
		r.logger.Warn("Failed to record balance_applied flag", map[string]any{
			"reference": txn.Reference,
			"error":     mergeErr.Error(),
		})
	}

	txn.Metadata = txn.Metadata.Merge(entity.Metadata{metaBalanceApplied: true})
	return nil
}

// recordObservation merges a non-terminal gateway response into metadata
func (r *Reconciler) recordObservation(ctx context.Context, txn *entity.Transaction, observed gateway.Status, raw entity.Metadata) {
	meta := entity.Metadata{metaPaymentStatus: string(observed)}
	if len(raw) > 0 {
		meta[metaGatewayResponse] = map[string]any(raw)
	}
	if err := r.transactionRepo.MergeMetadata(ctx, txn.Reference, meta); err != nil {
		r.logger.Warn("Failed to record gateway observation", map[string]any{
			"reference": txn.Reference,
			"status":    observed,
			"error":     err.Error(),
		})
	}
	txn.Metadata = txn.Metadata.Merge(meta)
}

// alertFailure raises an ops alert for settled failures above the
// high-value threshold
func (r *Reconciler) alertFailure(ctx context.Context, txn *entity.Transaction) {
	if r.highValueThreshold.IsZero() || txn.Amount.LessThan(r.highValueThreshold) {
		return
	}
	r.notify(ctx, alert.Alert{
		Severity:  alert.SeverityWarning,
		Kind:      "high_value_failure",
		Message:   "high value transaction settled as failed",
		Reference: txn.Reference,
		Fields: map[string]any{
			"user_id": txn.UserID,
			"type":    txn.Type,
			"amount":  txn.Amount.String(),
		},
	})
}

// notify forwards an alert without ever blocking settlement
func (r *Reconciler) notify(ctx context.Context, a alert.Alert) {
	if r.notifier == nil {
		return
	}
	r.notifier.Notify(ctx, a)
	if r.recorder != nil {
		r.recorder.RecordAlert(a.Kind)
	}
}

// mapStatus is the deterministic gateway-to-local status table shared by
// every reconciliation entry point
func mapStatus(observed gateway.Status) (entity.TransactionStatus, bool) {
	switch observed {
	case gateway.StatusSuccess:
		return entity.StatusCompleted, true
	case gateway.StatusFailed, gateway.StatusReversed:
		return entity.StatusFailed, true
	default:
		return entity.StatusProcessing, false
	}
}
