package alert

import "context"

// Severity grades an alert for the receiving ops channel
type Severity string

// Severities
const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is the structured payload pushed to the ops sink
type Alert struct {
	Severity  Severity       `json:"severity"`
	Kind      string         `json:"kind"` // failure_rate, high_value_failure, wallet_mutation
	Message   string         `json:"message"`
	Reference string         `json:"reference,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Notifier delivers alerts to the ops sink. Fire-and-forget: delivery
// failures are logged by implementations and never propagated, so alerting
// can never block transaction settlement.
type Notifier interface {
	Notify(ctx context.Context, alert Alert)
}
