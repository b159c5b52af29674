package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	alertport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/alert"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
)

// WebhookNotifier posts alerts as JSON to an ops webhook (a Slack-compatible
// incoming webhook or any internal collector)
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     coreport.Logger
}

// NewWebhookNotifier creates an HTTP webhook alert sink
func NewWebhookNotifier(url string, logger coreport.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Notify delivers the alert. Failures are logged, never propagated.
func (n *WebhookNotifier) Notify(ctx context.Context, a alertport.Alert) {
	body, err := json.Marshal(a)
	if err != nil {
		n.logger.Error("Failed to encode alert", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to build alert request", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Error("Failed to deliver alert", map[string]any{
			"kind":  a.Kind,
			"error": err.Error(),
		})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Error("Alert sink rejected alert", map[string]any{
			"kind":        a.Kind,
			"http_status": resp.StatusCode,
		})
		return
	}

	n.logger.Info("Alert delivered", map[string]any{
		"kind":     a.Kind,
		"severity": a.Severity,
	})
}
