package reconcile

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/metrics"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
)

// Webhook event names delivered by the gateway
const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// Ack outcomes reported back to the webhook endpoint. Any outcome other
// than a signature rejection is acknowledged with success, because the
// gateway retries unacknowledged deliveries indefinitely.
const (
	AckApplied   = "applied"   // event drove a state transition
	AckDuplicate = "duplicate" // transaction already terminal
	AckIgnored   = "ignored"   // unknown event or reference
	AckRecorded  = "recorded"  // apply failed but the event is durably recorded
)

// WebhookEvent is the parsed gateway push notification
type WebhookEvent struct {
	Event string      `json:"event"`
	Data  WebhookData `json:"data"`
}

// WebhookData carries the fields the reconciler depends on; the full body
// is preserved separately for the audit trail
type WebhookData struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// WebhookProcessor authenticates inbound gateway events and feeds them
// through the same transition function as the polling path
type WebhookProcessor struct {
	signingSecret   []byte
	reconciler      *Reconciler
	transactionRepo persistence.TransactionRepository
	recorder        metrics.Recorder
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider
}

// NewWebhookProcessor creates a webhook processor
func NewWebhookProcessor(
	signingSecret string,
	reconciler *Reconciler,
	transactionRepo persistence.TransactionRepository,
	recorder metrics.Recorder,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *WebhookProcessor {
	return &WebhookProcessor{
		signingSecret:   []byte(signingSecret),
		reconciler:      reconciler,
		transactionRepo: transactionRepo,
		recorder:        recorder,
		logger:          logger,
		timeProvider:    timeProvider,
	}
}

// VerifySignature checks the keyed hash of the exact raw body bytes
// against the signature header. The comparison is constant-time.
func (p *WebhookProcessor) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha512.New, p.signingSecret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errs.ErrInvalidSignature
	}
	return nil
}

// Process verifies the signature, dispatches the event and returns the
// acknowledgement outcome. A signature mismatch is the only error path; no
// transaction lookup or state change happens before the signature checks
// out.
func (p *WebhookProcessor) Process(ctx context.Context, body []byte, signature string) (string, error) {
	if err := p.VerifySignature(body, signature); err != nil {
		p.logger.Warn("Webhook rejected: signature mismatch", map[string]any{
			"body_bytes": len(body),
		})
		p.record("unknown", "rejected")
		return "", err
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		p.logger.Warn("Webhook body is not a recognizable event", map[string]any{
			"error": err.Error(),
		})
		p.record("unparseable", AckIgnored)
		return AckIgnored, nil
	}

	observed, known := eventStatus(event)
	if !known {
		p.logger.Debug("Ignoring webhook event type", map[string]any{
			"event": event.Event,
		})
		p.record(event.Event, AckIgnored)
		return AckIgnored, nil
	}

	txn, err := p.transactionRepo.GetByReference(ctx, event.Data.Reference)
	if err != nil {
		if errs.IsNotFoundError(err) {
			// The gateway knows a reference we never recorded. Acknowledge
			// so it stops retrying, but leave a trace for operators.
			p.logger.Warn("Webhook for unknown reference", map[string]any{
				"event":     event.Event,
				"reference": event.Data.Reference,
			})
			p.record(event.Event, AckIgnored)
			return AckIgnored, nil
		}
		return "", err
	}

	if txn.IsTerminal() {
		// Gateways retry webhook delivery; receiving the same terminal
		// event again must be a harmless no-op.
		p.logger.Info("Webhook for already-terminal transaction", map[string]any{
			"event":     event.Event,
			"reference": txn.Reference,
			"status":    txn.Status,
		})
		p.record(event.Event, AckDuplicate)
		return AckDuplicate, nil
	}

	raw := rawEventMetadata(body, event.Event)
	if _, applyErr := p.reconciler.Apply(ctx, txn, observed, raw); applyErr != nil {
		// The signature was valid and the event is real; record it durably
		// so a recovery pass can finish the job, then acknowledge anyway.
		p.logger.Error("Webhook apply failed, recording event for recovery", map[string]any{
			"event":     event.Event,
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"amount":    txn.Amount.String(),
			"error":     applyErr.Error(),
		})
		if mergeErr := p.transactionRepo.MergeMetadata(ctx, txn.Reference, entity.Metadata{
			"webhook_event":   event.Event,
			"webhook_error":   applyErr.Error(),
			"webhook_seen_at": p.timeProvider.Now().UTC(),
			"webhook_status":  string(observed),
		}); mergeErr != nil {
			p.logger.Error("Failed to durably record webhook event", map[string]any{
				"reference": txn.Reference,
				"error":     mergeErr.Error(),
			})
			return "", applyErr
		}
		p.record(event.Event, AckRecorded)
		return AckRecorded, nil
	}

	p.record(event.Event, AckApplied)
	return AckApplied, nil
}

// record counts a webhook outcome when a recorder is wired
func (p *WebhookProcessor) record(event, outcome string) {
	if p.recorder != nil {
		p.recorder.RecordWebhook(event, outcome)
	}
}

// eventStatus maps a webhook event to the gateway status it asserts
func eventStatus(event WebhookEvent) (gateway.Status, bool) {
	switch event.Event {
	case EventChargeSuccess, EventTransferSuccess:
		return gateway.StatusSuccess, true
	case EventTransferFailed:
		return gateway.StatusFailed, true
	case EventTransferReversed:
		return gateway.StatusReversed, true
	default:
		return "", false
	}
}

// rawEventMetadata keeps the provider's own payload in the audit trail
func rawEventMetadata(body []byte, eventName string) entity.Metadata {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return entity.Metadata{"webhook_event": eventName, "webhook_body": fmt.Sprintf("%d bytes, unparseable", len(body))}
	}
	return entity.Metadata{"webhook_event": eventName, "webhook_payload": raw}
}
