package alert

import (
	"context"

	alertport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
)

// FanoutNotifier delivers each alert to every configured sink
type FanoutNotifier struct {
	sinks []alertport.Notifier
}

// NewFanoutNotifier combines multiple alert sinks into one
func NewFanoutNotifier(sinks ...alertport.Notifier) *FanoutNotifier {
	return &FanoutNotifier{sinks: sinks}
}

// Notify forwards the alert to all sinks
func (n *FanoutNotifier) Notify(ctx context.Context, a alertport.Alert) {
	for _, sink := range n.sinks {
		sink.Notify(ctx, a)
	}
}
