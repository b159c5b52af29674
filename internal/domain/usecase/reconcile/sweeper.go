package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/metrics"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
)

// SweeperConfig bounds the recovery pass
type SweeperConfig struct {
	Interval     time.Duration // time between sweeps
	RetryCeiling int           // transactions at the ceiling stay failed permanently
	StaleAfter   time.Duration // pending/processing older than this are considered stuck
	BatchSize    int           // max transactions re-driven per sweep
}

// DefaultSweeperConfig returns the default recovery settings
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Interval:     5 * time.Minute,
		RetryCeiling: 3,
		StaleAfter:   10 * time.Minute,
		BatchSize:    50,
	}
}

// Sweeper is the fallback driver of reconciliation: it periodically picks
// up transactions that neither polling nor webhooks resolved and re-drives
// them through the reconciler, bounded by the retry ceiling.
type Sweeper struct {
	config          SweeperConfig
	transactionRepo persistence.TransactionRepository
	reconciler      *Reconciler
	monitor         *Monitor
	recorder        metrics.Recorder
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSweeper creates a recovery sweeper. monitor and recorder may be nil.
func NewSweeper(
	config SweeperConfig,
	transactionRepo persistence.TransactionRepository,
	reconciler *Reconciler,
	monitor *Monitor,
	recorder metrics.Recorder,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Sweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultSweeperConfig().Interval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultSweeperConfig().BatchSize
	}
	return &Sweeper{
		config:          config,
		transactionRepo: transactionRepo,
		reconciler:      reconciler,
		monitor:         monitor,
		recorder:        recorder,
		logger:          logger,
		timeProvider:    timeProvider,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is canceled.
// Calling Start more than once has no effect.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run(ctx)
}

// Stop terminates the loop and waits for an in-flight sweep to finish.
// Safe to call without a prior Start and safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	if s.started.Load() {
		<-s.doneCh
	}
}

// run is the ticker loop
func (s *Sweeper) run(ctx context.Context) {
	defer close(s.doneCh)

	s.logger.Info("Recovery sweeper started", map[string]any{
		"interval":      s.config.Interval.String(),
		"retry_ceiling": s.config.RetryCeiling,
		"batch_size":    s.config.BatchSize,
	})

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("Recovery sweep failed", map[string]any{
					"error": err.Error(),
				})
			}
			if s.monitor != nil {
				s.monitor.Check(ctx)
			}
		case <-s.stopCh:
			s.logger.Info("Recovery sweeper stopped", nil)
			return
		case <-ctx.Done():
			s.logger.Info("Recovery sweeper canceled", map[string]any{
				"error": ctx.Err().Error(),
			})
			return
		}
	}
}

// Sweep performs one recovery pass and returns how many transactions it
// re-drove. Each re-driven transaction's retry count is incremented before
// the reconcile attempt; the ceiling guard in MarkRetrying closes the race
// with concurrent sweeps.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	staleBefore := s.timeProvider.Now().Add(-s.config.StaleAfter)

	candidates, err := s.transactionRepo.FindRetriable(ctx, s.config.RetryCeiling, staleBefore, s.config.BatchSize)
	if err != nil {
		return 0, err
	}

	if len(candidates) == 0 {
		s.logger.Debug("Recovery sweep found nothing to re-drive", nil)
		if s.recorder != nil {
			s.recorder.RecordSweep(0)
		}
		return 0, nil
	}

	redriven := 0
	for _, txn := range candidates {
		ok, markErr := s.transactionRepo.MarkRetrying(ctx, txn.Reference, s.config.RetryCeiling)
		if markErr != nil {
			s.logger.Error("Failed to mark transaction retrying", map[string]any{
				"reference": txn.Reference,
				"error":     markErr.Error(),
			})
			continue
		}
		if !ok {
			// Settled meanwhile, or another sweep pushed it to the ceiling.
			continue
		}

		if _, recErr := s.reconciler.Reconcile(ctx, txn.Reference); recErr != nil {
			s.logger.Warn("Re-drive attempt did not settle transaction", map[string]any{
				"reference":   txn.Reference,
				"user_id":     txn.UserID,
				"type":        txn.Type,
				"retry_count": txn.RetryCount + 1,
				"error":       recErr.Error(),
			})
		}
		redriven++
	}

	s.logger.Info("Recovery sweep finished", map[string]any{
		"candidates": len(candidates),
		"redriven":   redriven,
	})
	if s.recorder != nil {
		s.recorder.RecordSweep(redriven)
	}
	return redriven, nil
}
