package metrics

// Recorder counts reconciliation outcomes for the monitoring surface.
// Implementations must be safe for concurrent use and must never fail the
// calling operation.
type Recorder interface {
	// RecordSettlement counts a terminal transition by transaction type
	// and terminal status
	RecordSettlement(txType, status string)

	// RecordWebhook counts an inbound webhook by event name and outcome
	// (applied, duplicate, ignored, rejected, recorded)
	RecordWebhook(event, outcome string)

	// RecordSweep counts one recovery pass and how many transactions it
	// re-drove
	RecordSweep(redriven int)

	// RecordAlert counts an emitted alert by kind
	RecordAlert(kind string)
}
