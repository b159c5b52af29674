package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/retry"
	alertmocks "github.com/sodiq-adeyemi/marketpay/mocks/port/alert"
	coremocks "github.com/sodiq-adeyemi/marketpay/mocks/port/core"
	gatewaymocks "github.com/sodiq-adeyemi/marketpay/mocks/port/gateway"
	persistencemocks "github.com/sodiq-adeyemi/marketpay/mocks/port/persistence"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func relaxedLogger() *coremocks.MockLogger {
	logger := new(coremocks.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func testTimeProvider() *coremocks.MockTimeProvider {
	tp := new(coremocks.MockTimeProvider)
	tp.On("Now").Return(testTime).Maybe()
	tp.On("Sleep", mock.Anything).Maybe()
	return tp
}

func singleAttemptExecutor() *retry.Executor {
	return retry.NewExecutor(retry.Config{MaxAttempts: 1}, relaxedLogger(), testTimeProvider())
}

type reconcilerFixture struct {
	txRepo     *persistencemocks.MockTransactionRepository
	walletRepo *persistencemocks.MockWalletRepository
	cache      *persistencemocks.MockWalletCache
	client     *gatewaymocks.MockClient
	notifier   *alertmocks.MockNotifier
	reconciler *Reconciler
}

func newReconcilerFixture(threshold decimal.Decimal) *reconcilerFixture {
	f := &reconcilerFixture{
		txRepo:     new(persistencemocks.MockTransactionRepository),
		walletRepo: new(persistencemocks.MockWalletRepository),
		cache:      new(persistencemocks.MockWalletCache),
		client:     new(gatewaymocks.MockClient),
		notifier:   new(alertmocks.MockNotifier),
	}
	f.reconciler = NewReconciler(
		f.txRepo,
		f.walletRepo,
		f.cache,
		f.client,
		singleAttemptExecutor(),
		f.notifier,
		nil,
		relaxedLogger(),
		testTimeProvider(),
		threshold,
	)
	return f
}

func pendingDeposit(reference string, amount int64) *entity.Transaction {
	return &entity.Transaction{
		ID:        1,
		Reference: reference,
		UserID:    42,
		Type:      entity.TypeDeposit,
		Amount:    decimal.NewFromInt(amount),
		Status:    entity.StatusPending,
		Metadata:  entity.Metadata{},
	}
}

func pendingWithdrawal(reference string, amount int64) *entity.Transaction {
	txn := pendingDeposit(reference, amount)
	txn.Type = entity.TypeWithdrawal
	return txn
}

func settledCopy(txn *entity.Transaction, status entity.TransactionStatus) *entity.Transaction {
	copied := *txn
	copied.Status = status
	copied.Settled = true
	return &copied
}

func TestReconciler_Reconcile(t *testing.T) {
	ctx := context.Background()

	t.Run("should settle a successful deposit and credit the wallet", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_1", 500)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_1").Return(txn, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_1").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_1").Return(&gateway.VerifyResult{
			Status: gateway.StatusSuccess,
			Raw:    entity.Metadata{"status": "success"},
		}, nil)
		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_1", entity.StatusCompleted, mock.Anything).
			Return(settledCopy(txn, entity.StatusCompleted), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(500)).
			Return(decimal.NewFromInt(500), nil)
		f.cache.On("Invalidate", mock.Anything, uint64(42)).Return()
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_1", mock.Anything).Return(nil)

		result, err := f.reconciler.Reconcile(ctx, "TXN_1")

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, result.Status)
		assert.True(t, result.Settled)
		f.txRepo.AssertExpectations(t)
		f.walletRepo.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("should be a no-op for an already terminal transaction", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := settledCopy(pendingDeposit("TXN_2", 500), entity.StatusCompleted)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_2").Return(txn, nil)

		result, err := f.reconciler.Reconcile(ctx, "TXN_2")

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, result.Status)
		f.client.AssertNotCalled(t, "VerifyCharge")
		f.walletRepo.AssertNotCalled(t, "Credit")
	})

	t.Run("should not touch the wallet when losing the settlement claim", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_3", 500)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_3").Return(txn, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_3").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_3").Return(&gateway.VerifyResult{
			Status: gateway.StatusSuccess,
		}, nil)
		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_3", entity.StatusCompleted, mock.Anything).
			Return(settledCopy(txn, entity.StatusCompleted), false, nil)

		result, err := f.reconciler.Reconcile(ctx, "TXN_3")

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, result.Status)
		f.walletRepo.AssertNotCalled(t, "Credit")
		f.cache.AssertNotCalled(t, "Invalidate")
	})

	t.Run("should leave a still-pending transaction non-terminal", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_4", 500)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_4").Return(txn, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_4").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_4").Return(&gateway.VerifyResult{
			Status: gateway.StatusPending,
			Raw:    entity.Metadata{"status": "pending"},
		}, nil)
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_4", mock.Anything).Return(nil)

		result, err := f.reconciler.Reconcile(ctx, "TXN_4")

		assert.NoError(t, err)
		assert.False(t, result.IsTerminal())
		f.txRepo.AssertNotCalled(t, "ClaimSettlement")
		f.walletRepo.AssertNotCalled(t, "Credit")
	})

	t.Run("should report verification exhaustion without guessing an outcome", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_5", 500)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_5").Return(txn, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_5").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_5").
			Return(nil, errs.ErrGatewayUnavailable)

		result, err := f.reconciler.Reconcile(ctx, "TXN_5")

		assert.ErrorIs(t, err, errs.ErrVerification)
		assert.False(t, result.IsTerminal())
		f.txRepo.AssertNotCalled(t, "ClaimSettlement")
	})

	t.Run("should verify withdrawals through the transfer endpoint", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingWithdrawal("TXN_6", 500)

		f.txRepo.On("GetByReference", mock.Anything, "TXN_6").Return(txn, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_6").Return(nil)
		f.client.On("VerifyTransfer", mock.Anything, "TXN_6").Return(&gateway.VerifyResult{
			Status: gateway.StatusSuccess,
		}, nil)
		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_6", entity.StatusCompleted, mock.Anything).
			Return(settledCopy(txn, entity.StatusCompleted), true, nil)

		result, err := f.reconciler.Reconcile(ctx, "TXN_6")

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusCompleted, result.Status)
		// Funds were held at initiation; a successful transfer changes nothing.
		f.walletRepo.AssertNotCalled(t, "Credit")
		f.client.AssertNotCalled(t, "VerifyCharge")
	})
}

func TestReconciler_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("should refund the hold when a withdrawal settles failed", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingWithdrawal("TXN_7", 300)

		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_7", entity.StatusFailed, mock.Anything).
			Return(settledCopy(txn, entity.StatusFailed), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(300)).
			Return(decimal.NewFromInt(300), nil)
		f.cache.On("Invalidate", mock.Anything, uint64(42)).Return()
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_7", mock.Anything).Return(nil)

		result, err := f.reconciler.Apply(ctx, txn, gateway.StatusFailed, nil)

		assert.NoError(t, err)
		assert.Equal(t, entity.StatusFailed, result.Status)
		f.walletRepo.AssertExpectations(t)
	})

	t.Run("should treat reversed the same as failed", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingWithdrawal("TXN_8", 300)

		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_8", entity.StatusFailed, mock.Anything).
			Return(settledCopy(txn, entity.StatusFailed), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(300)).
			Return(decimal.NewFromInt(300), nil)
		f.cache.On("Invalidate", mock.Anything, uint64(42)).Return()
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_8", mock.Anything).Return(nil)

		_, err := f.reconciler.Apply(ctx, txn, gateway.StatusReversed, nil)

		assert.NoError(t, err)
	})

	t.Run("should raise a critical alert when the credit fails after the claim", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_9", 500)

		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_9", entity.StatusCompleted, mock.Anything).
			Return(settledCopy(txn, entity.StatusCompleted), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(500)).
			Return(decimal.Zero, errs.ErrWalletMutation)
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a alert.Alert) bool {
			return a.Kind == "wallet_mutation" && a.Severity == alert.SeverityCritical
		})).Return()

		result, err := f.reconciler.Apply(ctx, txn, gateway.StatusSuccess, nil)

		assert.ErrorIs(t, err, errs.ErrWalletMutation)
		// The terminal status is already durable even though the credit failed.
		assert.Equal(t, entity.StatusCompleted, result.Status)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should alert on high value failures", func(t *testing.T) {
		f := newReconcilerFixture(decimal.NewFromInt(100))
		txn := pendingDeposit("TXN_10", 5000)

		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_10", entity.StatusFailed, mock.Anything).
			Return(settledCopy(txn, entity.StatusFailed), true, nil)
		f.notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a alert.Alert) bool {
			return a.Kind == "high_value_failure" && a.Severity == alert.SeverityWarning
		})).Return()

		_, err := f.reconciler.Apply(ctx, txn, gateway.StatusFailed, nil)

		assert.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})

	t.Run("should skip the failure alert below the threshold", func(t *testing.T) {
		f := newReconcilerFixture(decimal.NewFromInt(10000))
		txn := pendingDeposit("TXN_11", 50)

		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_11", entity.StatusFailed, mock.Anything).
			Return(settledCopy(txn, entity.StatusFailed), true, nil)

		_, err := f.reconciler.Apply(ctx, txn, gateway.StatusFailed, nil)

		assert.NoError(t, err)
		f.notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("should record claim metadata with the gateway response", func(t *testing.T) {
		f := newReconcilerFixture(decimal.Zero)
		txn := pendingDeposit("TXN_12", 500)

		var captured entity.Metadata
		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_12", entity.StatusCompleted, mock.MatchedBy(func(meta entity.Metadata) bool {
			captured = meta
			return true
		})).Return(settledCopy(txn, entity.StatusCompleted), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(500)).
			Return(decimal.NewFromInt(500), nil)
		f.cache.On("Invalidate", mock.Anything, uint64(42)).Return()
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_12", mock.Anything).Return(nil)

		_, err := f.reconciler.Apply(ctx, txn, gateway.StatusSuccess, entity.Metadata{"status": "success"})

		assert.NoError(t, err)
		assert.Equal(t, "success", captured.GetString("payment_status"))
		assert.Contains(t, captured, "settled_at")
		assert.Contains(t, captured, "gateway_response")
		// The flag is seeded false and flipped only after the credit lands.
		assert.Equal(t, false, captured["balance_applied"])
	})
}
