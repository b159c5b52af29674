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
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
)

func newSweeperFixture(cfg SweeperConfig) (*Sweeper, *reconcilerFixture) {
	f := newReconcilerFixture(decimal.Zero)
	sweeper := NewSweeper(cfg, f.txRepo, f.reconciler, nil, nil, relaxedLogger(), testTimeProvider())
	return sweeper, f
}

func TestSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	cfg := SweeperConfig{
		Interval:     time.Minute,
		RetryCeiling: 3,
		StaleAfter:   10 * time.Minute,
		BatchSize:    50,
	}

	t.Run("should report zero when nothing is retriable", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)

		f.txRepo.On("FindRetriable", mock.Anything, 3, testTime.Add(-10*time.Minute), 50).
			Return([]*entity.Transaction{}, nil)

		redriven, err := sweeper.Sweep(ctx)

		assert.NoError(t, err)
		assert.Zero(t, redriven)
		f.txRepo.AssertNotCalled(t, "MarkRetrying")
	})

	t.Run("should re-drive candidates through the reconciler", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)
		stuck := pendingDeposit("TXN_S1", 500)
		stuck.Status = entity.StatusRetrying

		f.txRepo.On("FindRetriable", mock.Anything, 3, mock.Anything, 50).
			Return([]*entity.Transaction{stuck}, nil)
		f.txRepo.On("MarkRetrying", mock.Anything, "TXN_S1", 3).Return(true, nil)
		f.txRepo.On("GetByReference", mock.Anything, "TXN_S1").Return(stuck, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_S1").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_S1").Return(&gateway.VerifyResult{
			Status: gateway.StatusSuccess,
		}, nil)
		f.txRepo.On("ClaimSettlement", mock.Anything, "TXN_S1", entity.StatusCompleted, mock.Anything).
			Return(settledCopy(stuck, entity.StatusCompleted), true, nil)
		f.walletRepo.On("Credit", mock.Anything, uint64(42), decimal.NewFromInt(500)).
			Return(decimal.NewFromInt(500), nil)
		f.cache.On("Invalidate", mock.Anything, uint64(42)).Return()
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_S1", mock.Anything).Return(nil)

		redriven, err := sweeper.Sweep(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, redriven)
		f.txRepo.AssertExpectations(t)
	})

	t.Run("should skip a candidate another driver already settled", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)
		stuck := pendingDeposit("TXN_S2", 500)

		f.txRepo.On("FindRetriable", mock.Anything, 3, mock.Anything, 50).
			Return([]*entity.Transaction{stuck}, nil)
		f.txRepo.On("MarkRetrying", mock.Anything, "TXN_S2", 3).Return(false, nil)

		redriven, err := sweeper.Sweep(ctx)

		assert.NoError(t, err)
		assert.Zero(t, redriven)
		f.client.AssertNotCalled(t, "VerifyCharge")
	})

	t.Run("should keep sweeping when one candidate errors", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)
		first := pendingDeposit("TXN_S3", 100)
		second := pendingDeposit("TXN_S4", 200)

		f.txRepo.On("FindRetriable", mock.Anything, 3, mock.Anything, 50).
			Return([]*entity.Transaction{first, second}, nil)
		f.txRepo.On("MarkRetrying", mock.Anything, "TXN_S3", 3).Return(false, errs.ErrLedgerWrite)
		f.txRepo.On("MarkRetrying", mock.Anything, "TXN_S4", 3).Return(true, nil)
		f.txRepo.On("GetByReference", mock.Anything, "TXN_S4").Return(second, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_S4").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_S4").Return(&gateway.VerifyResult{
			Status: gateway.StatusPending,
		}, nil)
		f.txRepo.On("MergeMetadata", mock.Anything, "TXN_S4", mock.Anything).Return(nil)

		redriven, err := sweeper.Sweep(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, redriven)
	})

	t.Run("should count a re-drive even when verification stays ambiguous", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)
		stuck := pendingDeposit("TXN_S5", 500)

		f.txRepo.On("FindRetriable", mock.Anything, 3, mock.Anything, 50).
			Return([]*entity.Transaction{stuck}, nil)
		f.txRepo.On("MarkRetrying", mock.Anything, "TXN_S5", 3).Return(true, nil)
		f.txRepo.On("GetByReference", mock.Anything, "TXN_S5").Return(stuck, nil)
		f.txRepo.On("MarkProcessing", mock.Anything, "TXN_S5").Return(nil)
		f.client.On("VerifyCharge", mock.Anything, "TXN_S5").
			Return(nil, errs.ErrGatewayUnavailable)

		redriven, err := sweeper.Sweep(ctx)

		assert.NoError(t, err)
		assert.Equal(t, 1, redriven)
	})

	t.Run("should propagate a ledger read failure", func(t *testing.T) {
		sweeper, f := newSweeperFixture(cfg)

		f.txRepo.On("FindRetriable", mock.Anything, 3, mock.Anything, 50).
			Return(nil, errs.ErrLedgerWrite)

		redriven, err := sweeper.Sweep(ctx)

		assert.ErrorIs(t, err, errs.ErrLedgerWrite)
		assert.Zero(t, redriven)
	})
}

func TestSweeper_StartStop(t *testing.T) {
	cfg := SweeperConfig{Interval: time.Hour, RetryCeiling: 3, StaleAfter: time.Minute, BatchSize: 10}

	t.Run("should stop a running loop and tolerate a second stop", func(t *testing.T) {
		sweeper, _ := newSweeperFixture(cfg)

		sweeper.Start(context.Background())
		sweeper.Stop()
		sweeper.Stop()
	})

	t.Run("should return from stop when the loop was never started", func(t *testing.T) {
		sweeper, _ := newSweeperFixture(cfg)

		done := make(chan struct{})
		go func() {
			sweeper.Stop()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked without a running loop")
		}
	})

	t.Run("should ignore a second start", func(t *testing.T) {
		sweeper, _ := newSweeperFixture(cfg)

		ctx := context.Background()
		sweeper.Start(ctx)
		sweeper.Start(ctx)
		sweeper.Stop()
	})
}
