package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	alertport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
)

const smsEndpoint = "https://api.ng.termii.com/api/sms/send"

// SMSNotifier texts critical alerts to the on-call phone. Warnings are
// skipped; the webhook sink carries those.
type SMSNotifier struct {
	apiKey     string
	senderID   string
	opsPhone   string
	httpClient *http.Client
	logger     coreport.Logger
}

// NewSMSNotifier creates an SMS alert sink for critical alerts
func NewSMSNotifier(cfg *config.SMSConfig, logger coreport.Logger) *SMSNotifier {
	return &SMSNotifier{
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
		opsPhone: cfg.OpsPhone,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Notify sends critical alerts by SMS. Failures are logged, never propagated.
func (n *SMSNotifier) Notify(ctx context.Context, a alertport.Alert) {
	if a.Severity != alertport.SeverityCritical {
		return
	}

	message := fmt.Sprintf("[%s] %s", a.Kind, a.Message)
	if a.Reference != "" {
		message += " ref=" + a.Reference
	}

	body, err := json.Marshal(map[string]any{
		"api_key": n.apiKey,
		"from":    n.senderID,
		"to":      n.opsPhone,
		"sms":     message,
		"type":    "plain",
		"channel": "generic",
	})
	if err != nil {
		n.logger.Error("Failed to encode SMS alert", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, smsEndpoint, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to build SMS request", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("Failed to send SMS alert", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Error("SMS provider rejected alert", map[string]any{
			"kind":        a.Kind,
			"http_status": resp.StatusCode,
		})
		return
	}

	n.logger.Info("SMS alert sent", map[string]any{
		"kind": a.Kind,
	})
}
