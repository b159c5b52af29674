package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder port with prometheus counters
type PrometheusRecorder struct {
	settlements *prometheus.CounterVec
	webhooks    *prometheus.CounterVec
	sweeps      prometheus.Counter
	redriven    prometheus.Counter
	alerts      *prometheus.CounterVec
}

// NewPrometheusRecorder registers the reconciliation metrics on the default
// registry
func NewPrometheusRecorder() *PrometheusRecorder {
	return &PrometheusRecorder{
		settlements: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketpay",
			Name:      "settlements_total",
			Help:      "Settled transactions by type and terminal status",
		}, []string{"type", "status"}),
		webhooks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketpay",
			Name:      "webhook_events_total",
			Help:      "Webhook events by event name and processing outcome",
		}, []string{"event", "outcome"}),
		sweeps: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "marketpay",
			Name:      "recovery_sweeps_total",
			Help:      "Recovery sweep passes completed",
		}),
		redriven: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "marketpay",
			Name:      "recovery_redriven_total",
			Help:      "Transactions re-driven by the recovery sweeper",
		}),
		alerts: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketpay",
			Name:      "ops_alerts_total",
			Help:      "Operator alerts emitted by kind",
		}, []string{"kind"}),
	}
}

// RecordSettlement counts a settled transaction
func (r *PrometheusRecorder) RecordSettlement(txType, status string) {
	r.settlements.WithLabelValues(txType, status).Inc()
}

// RecordWebhook counts a processed webhook event
func (r *PrometheusRecorder) RecordWebhook(event, outcome string) {
	r.webhooks.WithLabelValues(event, outcome).Inc()
}

// RecordSweep counts a completed sweep pass and its re-driven transactions
func (r *PrometheusRecorder) RecordSweep(redriven int) {
	r.sweeps.Inc()
	r.redriven.Add(float64(redriven))
}

// RecordAlert counts an emitted operator alert
func (r *PrometheusRecorder) RecordAlert(kind string) {
	r.alerts.WithLabelValues(kind).Inc()
}
