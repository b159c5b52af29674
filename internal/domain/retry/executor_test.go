package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coremocks "github.com/sodiq-adeyemi/marketpay/mocks/port/core"
)

func relaxedLogger() *coremocks.MockLogger {
	logger := new(coremocks.MockLogger)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func instantTimeProvider() *coremocks.MockTimeProvider {
	tp := new(coremocks.MockTimeProvider)
	tp.On("Sleep", mock.Anything).Maybe()
	return tp
}

func TestExecutor_Do(t *testing.T) {
	t.Run("should return nil on first success", func(t *testing.T) {
		executor := NewExecutor(DefaultConfig(), relaxedLogger(), instantTimeProvider())

		calls := 0
		err := executor.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("should retry until success", func(t *testing.T) {
		executor := NewExecutor(Config{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffMultiplier: 2}, relaxedLogger(), instantTimeProvider())

		calls := 0
		err := executor.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("should return the last error unmodified after exhaustion", func(t *testing.T) {
		executor := NewExecutor(Config{MaxAttempts: 2, InitialDelay: time.Millisecond, BackoffMultiplier: 2}, relaxedLogger(), instantTimeProvider())

		lastErr := errors.New("attempt two failed")
		calls := 0
		err := executor.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			if calls == 1 {
				return errors.New("attempt one failed")
			}
			return lastErr
		})

		assert.Equal(t, lastErr, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("should stop immediately on a non-retryable error", func(t *testing.T) {
		executor := NewExecutor(Config{MaxAttempts: 5, InitialDelay: time.Millisecond, BackoffMultiplier: 2}, relaxedLogger(), instantTimeProvider()).
			WithRetryable(errs.IsRetryable)

		calls := 0
		err := executor.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return errs.ErrGatewayRejected
		})

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
		assert.Equal(t, 1, calls)
	})

	t.Run("should keep retrying retryable errors with a predicate", func(t *testing.T) {
		executor := NewExecutor(Config{MaxAttempts: 3, InitialDelay: time.Millisecond, BackoffMultiplier: 2}, relaxedLogger(), instantTimeProvider()).
			WithRetryable(errs.IsRetryable)

		calls := 0
		err := executor.Do(context.Background(), "op", func(ctx context.Context) error {
			calls++
			return errs.ErrGatewayUnavailable
		})

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.Equal(t, 3, calls)
	})

	t.Run("should abort backoff when the context is canceled", func(t *testing.T) {
		tp := new(coremocks.MockTimeProvider)
		tp.On("Sleep", mock.Anything).Run(func(args mock.Arguments) {
			time.Sleep(50 * time.Millisecond)
		}).Maybe()

		executor := NewExecutor(Config{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond, BackoffMultiplier: 2}, relaxedLogger(), tp)

		ctx, cancel := context.WithCancel(context.Background())

		calls := 0
		errCh := make(chan error, 1)
		go func() {
			errCh <- executor.Do(ctx, "op", func(ctx context.Context) error {
				calls++
				return errors.New("transient")
			})
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		err := <-errCh
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("should clamp the computed delay at MaxDelay", func(t *testing.T) {
		executor := NewExecutor(Config{
			MaxAttempts:       4,
			InitialDelay:      100 * time.Millisecond,
			BackoffMultiplier: 10,
			MaxDelay:          200 * time.Millisecond,
		}, relaxedLogger(), instantTimeProvider())

		assert.Equal(t, 100*time.Millisecond, executor.backoff(1))
		assert.Equal(t, 200*time.Millisecond, executor.backoff(2))
		assert.Equal(t, 200*time.Millisecond, executor.backoff(3))
	})
}
