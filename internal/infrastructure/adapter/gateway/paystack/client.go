package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/config"
)

const currency = "NGN"

// Client talks to the Paystack REST API. All amounts cross the wire in the
// currency subunit (kobo), converted at this boundary only.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     coreport.Logger
}

// envelope is the provider's uniform response wrapper
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewClient creates a new Paystack API client
func NewClient(cfg *config.GatewayConfig, logger coreport.Logger) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// ResolveBankAccount confirms an account number/bank code pair and returns
// the registered account name
func (c *Client) ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	query := url.Values{}
	query.Set("account_number", accountNumber)
	query.Set("bank_code", bankCode)

	var data struct {
		AccountName   string `json:"account_name"`
		AccountNumber string `json:"account_number"`
	}
	if err := c.call(ctx, http.MethodGet, "/bank/resolve?"+query.Encode(), nil, "resolve_account", "", &data); err != nil {
		return "", err
	}

	return data.AccountName, nil
}

// CreateTransferRecipient registers a payout target and returns the
// recipient code used to address transfers
func (c *Client) CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	body := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       currency,
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := c.call(ctx, http.MethodPost, "/transferrecipient", body, "create_recipient", "", &data); err != nil {
		return "", err
	}

	return data.RecipientCode, nil
}

// InitializeCharge starts an inbound payment for the given reference
func (c *Client) InitializeCharge(ctx context.Context, amount decimal.Decimal, email, reference string, meta entity.Metadata) (*gateway.ChargeAuthorization, error) {
	body := map[string]any{
		"amount":    toSubunit(amount),
		"email":     email,
		"reference": reference,
		"currency":  currency,
	}
	if len(meta) > 0 {
		body["metadata"] = meta
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", body, "initialize_charge", reference, &data); err != nil {
		return nil, err
	}

	c.logger.Info("Charge initialized", map[string]any{
		"reference": reference,
		"amount":    amount.String(),
	})

	return &gateway.ChargeAuthorization{
		Reference:        data.Reference,
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
	}, nil
}

// InitiateTransfer starts an outbound payout addressed by recipientCode
func (c *Client) InitiateTransfer(ctx context.Context, amount decimal.Decimal, recipientCode, reference, reason string) (*gateway.TransferHandle, error) {
	body := map[string]any{
		"source":    "balance",
		"amount":    toSubunit(amount),
		"recipient": recipientCode,
		"reference": reference,
		"reason":    reason,
	}

	var data struct {
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	}
	if err := c.call(ctx, http.MethodPost, "/transfer", body, "initiate_transfer", reference, &data); err != nil {
		return nil, err
	}

	c.logger.Info("Transfer initiated", map[string]any{
		"reference":     reference,
		"amount":        amount.String(),
		"status":        data.Status,
		"transfer_code": data.TransferCode,
	})

	return &gateway.TransferHandle{
		Reference:    reference,
		TransferCode: data.TransferCode,
		Status:       gateway.Status(data.Status),
	}, nil
}

// VerifyCharge reads the current status of an inbound payment
func (c *Client) VerifyCharge(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	return c.verify(ctx, "/transaction/verify/"+url.PathEscape(reference), "verify_charge", reference)
}

// VerifyTransfer reads the current status of an outbound payout
func (c *Client) VerifyTransfer(ctx context.Context, reference string) (*gateway.VerifyResult, error) {
	return c.verify(ctx, "/transfer/verify/"+url.PathEscape(reference), "verify_transfer", reference)
}

func (c *Client) verify(ctx context.Context, path, operation, reference string) (*gateway.VerifyResult, error) {
	var data map[string]any
	if err := c.call(ctx, http.MethodGet, path, nil, operation, reference, &data); err != nil {
		return nil, err
	}

	status, _ := data["status"].(string)
	if status == "" {
		return nil, errs.NewGatewayError(operation, reference, "response missing status", errs.ErrGatewayRejected)
	}

	return &gateway.VerifyResult{
		Status: gateway.Status(status),
		Raw:    entity.Metadata(data),
	}, nil
}

// call performs one HTTP round trip and decodes the provider envelope into out
func (c *Client) call(ctx context.Context, method, path string, body any, operation, reference string, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errs.NewGatewayError(operation, reference, "failed to encode request", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errs.NewGatewayError(operation, reference, "failed to build request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Gateway request failed", map[string]any{
			"operation": operation,
			"reference": reference,
			"error":     err.Error(),
		})
		return errs.NewGatewayError(operation, reference, "request failed", errs.ErrGatewayUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewGatewayError(operation, reference, "failed to read response", errs.ErrGatewayUnavailable)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errs.NewGatewayError(operation, reference,
			fmt.Sprintf("unparseable response (http %d)", resp.StatusCode), errs.ErrGatewayUnavailable)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return errs.NewGatewayError(operation, reference, env.Message, errs.ErrGatewayUnavailable)
	}

	if !env.Status || resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("Gateway rejected request", map[string]any{
			"operation":   operation,
			"reference":   reference,
			"http_status": resp.StatusCode,
			"message":     env.Message,
		})
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity {
			return errs.NewGatewayError(operation, reference, env.Message, errs.ErrValidation)
		}
		return errs.NewGatewayError(operation, reference, env.Message, errs.ErrGatewayRejected)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errs.NewGatewayError(operation, reference, "unparseable response data", errs.ErrGatewayRejected)
		}
	}

	return nil
}

// toSubunit converts a major-unit amount to the integer subunit the provider
// expects
func toSubunit(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}
