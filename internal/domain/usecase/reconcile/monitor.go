package reconcile

import (
	"context"
	"time"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/metrics"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
)

// MonitorConfig bounds the failure-rate check
type MonitorConfig struct {
	Window        time.Duration // how far back settlements are counted
	RateThreshold float64       // alert when failed/total exceeds this
	MinSample     int64         // below this many settlements the rate is noise
}

// DefaultMonitorConfig returns the default alerting thresholds
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Window:        time.Hour,
		RateThreshold: 0.25,
		MinSample:     10,
	}
}

// Monitor observes the transaction failure rate and raises ops alerts.
// Read-only with respect to the ledger.
type Monitor struct {
	config       MonitorConfig
	txRepo       persistence.TransactionRepository
	notifier     alert.Notifier
	recorder     metrics.Recorder
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	lastAlerted time.Time
}

// NewMonitor creates a failure-rate monitor
func NewMonitor(
	config MonitorConfig,
	txRepo persistence.TransactionRepository,
	notifier alert.Notifier,
	recorder metrics.Recorder,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Monitor {
	if config.Window <= 0 {
		config.Window = DefaultMonitorConfig().Window
	}
	return &Monitor{
		config:       config,
		txRepo:       txRepo,
		notifier:     notifier,
		recorder:     recorder,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Check samples the settlement failure rate over the window and alerts
// when it crosses the threshold. At most one alert per window to avoid
// drowning the ops channel.
func (m *Monitor) Check(ctx context.Context) {
	now := m.timeProvider.Now()
	failed, total, err := m.txRepo.FailureStats(ctx, now.Add(-m.config.Window))
	if err != nil {
		m.logger.Warn("Failure-rate check could not read stats", map[string]any{
			"error": err.Error(),
		})
		return
	}

	if total < m.config.MinSample {
		return
	}

	rate := float64(failed) / float64(total)
	if rate <= m.config.RateThreshold {
		return
	}

	if now.Sub(m.lastAlerted) < m.config.Window {
		return
	}
	m.lastAlerted = now

	m.logger.Warn("Settlement failure rate above threshold", map[string]any{
		"failed":    failed,
		"total":     total,
		"rate":      rate,
		"threshold": m.config.RateThreshold,
	})

	if m.notifier != nil {
		m.notifier.Notify(ctx, alert.Alert{
			Severity: alert.SeverityCritical,
			Kind:     "failure_rate",
			Message:  "settlement failure rate above threshold",
			Fields: map[string]any{
				"failed":    failed,
				"total":     total,
				"rate":      rate,
				"threshold": m.config.RateThreshold,
				"window":    m.config.Window.String(),
			},
		})
		if m.recorder != nil {
			m.recorder.RecordAlert("failure_rate")
		}
	}
}
