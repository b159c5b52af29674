package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	alertmocks "github.com/sodiq-adeyemi/marketpay/mocks/port/alert"
	persistencemocks "github.com/sodiq-adeyemi/marketpay/mocks/port/persistence"
)

func TestMonitor_Check(t *testing.T) {
	ctx := context.Background()
	cfg := MonitorConfig{
		Window:        time.Hour,
		RateThreshold: 0.25,
		MinSample:     10,
	}

	newFixture := func() (*Monitor, *persistencemocks.MockTransactionRepository, *alertmocks.MockNotifier) {
		txRepo := new(persistencemocks.MockTransactionRepository)
		notifier := new(alertmocks.MockNotifier)
		monitor := NewMonitor(cfg, txRepo, notifier, nil, relaxedLogger(), testTimeProvider())
		return monitor, txRepo, notifier
	}

	t.Run("should alert when the failure rate crosses the threshold", func(t *testing.T) {
		monitor, txRepo, notifier := newFixture()

		txRepo.On("FailureStats", mock.Anything, testTime.Add(-time.Hour)).
			Return(int64(6), int64(20), nil)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a alert.Alert) bool {
			return a.Kind == "failure_rate" && a.Severity == alert.SeverityCritical
		})).Return()

		monitor.Check(ctx)

		notifier.AssertExpectations(t)
	})

	t.Run("should stay quiet below the threshold", func(t *testing.T) {
		monitor, txRepo, notifier := newFixture()

		txRepo.On("FailureStats", mock.Anything, mock.Anything).
			Return(int64(2), int64(20), nil)

		monitor.Check(ctx)

		notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("should treat a small sample as noise", func(t *testing.T) {
		monitor, txRepo, notifier := newFixture()

		txRepo.On("FailureStats", mock.Anything, mock.Anything).
			Return(int64(5), int64(5), nil)

		monitor.Check(ctx)

		notifier.AssertNotCalled(t, "Notify")
	})

	t.Run("should raise at most one alert per window", func(t *testing.T) {
		monitor, txRepo, notifier := newFixture()

		txRepo.On("FailureStats", mock.Anything, mock.Anything).
			Return(int64(10), int64(20), nil)
		notifier.On("Notify", mock.Anything, mock.Anything).Return()

		monitor.Check(ctx)
		monitor.Check(ctx)

		notifier.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("should swallow a stats read failure", func(t *testing.T) {
		monitor, txRepo, notifier := newFixture()

		txRepo.On("FailureStats", mock.Anything, mock.Anything).
			Return(int64(0), int64(0), errs.ErrLedgerWrite)

		monitor.Check(ctx)

		notifier.AssertNotCalled(t, "Notify")
	})
}
