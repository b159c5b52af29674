package gateway

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
)

// Status is the gateway-side status of a charge or transfer, normalized
// from the provider's response envelope
type Status string

// Gateway statuses. Anything outside the terminal three means the gateway
// has not concluded yet and the caller should retry later.
const (
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusReversed   Status = "reversed"
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusAbandoned  Status = "abandoned"
)

// IsTerminal reports whether the gateway considers the operation concluded
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusReversed
}

// ChargeAuthorization is the handle returned when a charge is initialized.
// The caller redirects the payer to AuthorizationURL; Reference is the only
// handle the rest of the system needs afterwards.
type ChargeAuthorization struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// TransferHandle is the result of initiating an outbound payout. Status may
// already be terminal for immediately-settled transfers.
type TransferHandle struct {
	Reference    string
	TransferCode string
	Status       Status
}

// VerifyResult is an idempotent read of the gateway's current truth for a
// reference. Raw carries the provider's response body for the audit trail.
type VerifyResult struct {
	Status Status
	Raw    entity.Metadata
}

// Client is the thin wrapper around the external payment gateway's REST
// API. Each call maps 1:1 to a remote operation; verify calls never mutate
// gateway-side state.
//
// Error contract:
// - ErrGatewayUnavailable: transport-level failure, retryable
// - ErrGatewayRejected: the gateway declined the request
// - ErrValidation: the gateway reports caller data as invalid
type Client interface {
	// ResolveBankAccount confirms an account number/bank code pair and
	// returns the registered account name
	ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (string, error)

	// CreateTransferRecipient registers a payout target and returns the
	// recipient code used to address transfers
	CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error)

	// InitializeCharge starts an inbound payment for the given reference
	InitializeCharge(ctx context.Context, amount decimal.Decimal, email, reference string, meta entity.Metadata) (*ChargeAuthorization, error)

	// InitiateTransfer starts an outbound payout addressed by recipientCode
	InitiateTransfer(ctx context.Context, amount decimal.Decimal, recipientCode, reference, reason string) (*TransferHandle, error)

	// VerifyCharge reads the current status of an inbound payment
	VerifyCharge(ctx context.Context, reference string) (*VerifyResult, error)

	// VerifyTransfer reads the current status of an outbound payout
	VerifyTransfer(ctx context.Context, reference string) (*VerifyResult, error)
}
