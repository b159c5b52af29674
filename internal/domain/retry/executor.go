package retry

import (
	"context"
	"time"

	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
)

// Config holds configuration for retry operations
type Config struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
}

// DefaultConfig returns the default retry configuration
func DefaultConfig() Config {
	return Config{
		MaxAttempts:       3,
		InitialDelay:      200 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxDelay:          5 * time.Second,
	}
}

// Executor runs fallible operations with bounded retries and exponential
// backoff. The last error is returned unmodified once attempts are
// exhausted; errors are never swallowed.
type Executor struct {
	config       Config
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	// retryable decides whether an error is worth another attempt.
	// nil means every error is retried.
	retryable func(error) bool
}

// NewExecutor creates a retry executor
func NewExecutor(config Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Executor {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 1
	}
	return &Executor{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// WithRetryable returns a copy of the executor that only retries errors
// accepted by the predicate
func (e *Executor) WithRetryable(predicate func(error) bool) *Executor {
	clone := *e
	clone.retryable = predicate
	return &clone
}

// Do invokes operation up to MaxAttempts times, waiting
// InitialDelay * BackoffMultiplier^(attempt-1) between attempts. The
// operation name is only used for logging.
func (e *Executor) Do(ctx context.Context, name string, operation func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		err = operation(ctx)
		if err == nil {
			return nil
		}

		if e.retryable != nil && !e.retryable(err) {
			return err
		}

		if attempt == e.config.MaxAttempts {
			break
		}

		backoff := e.backoff(attempt)
		e.logger.Warn("Operation failed, retrying", map[string]any{
			"operation":    name,
			"attempt":      attempt,
			"max_attempts": e.config.MaxAttempts,
			"retry_after":  backoff.String(),
			"error":        err.Error(),
		})

		if sleepErr := e.sleep(ctx, backoff); sleepErr != nil {
			e.logger.Warn("Retry canceled by context", map[string]any{
				"operation": name,
				"attempt":   attempt,
				"error":     sleepErr.Error(),
			})
			return sleepErr
		}
	}

	e.logger.Error("All retry attempts failed", map[string]any{
		"operation":    name,
		"max_attempts": e.config.MaxAttempts,
		"error":        err.Error(),
	})

	return err
}

// backoff computes the delay before the next attempt
func (e *Executor) backoff(attempt int) time.Duration {
	delay := float64(e.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= e.config.BackoffMultiplier
	}

	d := time.Duration(delay)
	if e.config.MaxDelay > 0 && d > e.config.MaxDelay {
		d = e.config.MaxDelay
	}
	return d
}

// sleep waits for the backoff duration unless the context is canceled first
func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	done := make(chan struct{})
	go func() {
		e.timeProvider.Sleep(d)
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
