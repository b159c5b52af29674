package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance = 4001
	CodeInvalidAmount       = 4002
	CodeInvalidUserID       = 4003
	CodeDuplicateReference  = 4004
	CodeValidation          = 4005
	CodeInvalidSignature    = 4010
	CodeTransactionNotFound = 4040
	CodeWalletNotFound      = 4041
	CodeGatewayRejected     = 4220

	// 5xxx - Server errors
	CodeInternalServer     = 5000
	CodeGatewayUnavailable = 5020
	CodeLedgerWrite        = 5030
	CodeWalletMutation     = 5031
	CodeVerification       = 5040
)

// Base error types
var (
	// ErrGatewayUnavailable is returned on transport-level failures calling
	// the payment gateway; safe to retry
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrGatewayRejected is returned when the gateway explicitly declined
	// the request; not retried blindly
	ErrGatewayRejected = errors.New("payment gateway rejected the request")

	// ErrValidation is returned when the gateway reports caller-supplied
	// data as invalid (e.g. an unresolvable bank account)
	ErrValidation = errors.New("validation failed")

	// ErrInvalidSignature is returned when a webhook signature does not
	// match the request body
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrLedgerWrite is returned on persistence-layer failures while
	// updating a transaction record
	ErrLedgerWrite = errors.New("ledger write failure")

	// ErrWalletMutation is returned when the balance mutation failed after
	// the settlement status was already written
	ErrWalletMutation = errors.New("wallet balance mutation failed")

	// ErrVerification is returned when gateway verification attempts were
	// exhausted without a usable outcome; the transaction stays non-terminal
	ErrVerification = errors.New("could not verify transaction with gateway")

	// ErrInsufficientBalance is returned when a wallet cannot cover a
	// withdrawal hold
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when the transaction amount is not a
	// positive number
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrNegativeBalance is returned when an operation would produce a
	// negative wallet balance
	ErrNegativeBalance = errors.New("balance cannot be negative")

	// ErrInvalidReference is returned when the transaction reference is empty
	ErrInvalidReference = errors.New("transaction reference cannot be empty")

	// ErrInvalidTransactionType is returned for unknown transaction types
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrDuplicateReference is returned when a transaction with the same
	// reference already exists
	ErrDuplicateReference = errors.New("transaction with this reference already exists")

	// ErrTransactionNotFound is returned when no transaction matches the
	// given reference or ID
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrWalletNotFound is returned when the user has no wallet record
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrDuplicateReference):
		return CodeDuplicateReference
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrInvalidSignature):
		return CodeInvalidSignature
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrWalletNotFound):
		return CodeWalletNotFound
	case errors.Is(err, ErrGatewayRejected):
		return CodeGatewayRejected
	case errors.Is(err, ErrGatewayUnavailable):
		return CodeGatewayUnavailable
	case errors.Is(err, ErrLedgerWrite):
		return CodeLedgerWrite
	case errors.Is(err, ErrWalletMutation):
		return CodeWalletMutation
	case errors.Is(err, ErrVerification):
		return CodeVerification
	default:
		return CodeInternalServer
	}
}

// GatewayError carries the gateway's own message alongside the
// classification sentinel so operators see the remote reason verbatim
type GatewayError struct {
	Operation string // resolve_account, initialize, transfer, verify
	Reference string
	Message   string
	Err       error
}

// Error implements the error interface for GatewayError
func (e *GatewayError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("gateway %s failed for %s: %s: %v", e.Operation, e.Reference, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: %s: %v", e.Operation, e.Message, e.Err)
}

// Unwrap returns the underlying classification error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "gateway_error",
		"operation":  e.Operation,
		"reference":  e.Reference,
		"message":    e.Message,
		"error_code": ErrorCode(e.Err),
	}
}

// NewGatewayError creates a classified gateway error
func NewGatewayError(operation, reference, message string, err error) error {
	return &GatewayError{
		Operation: operation,
		Reference: reference,
		Message:   message,
		Err:       err,
	}
}

// SettlementError describes a failure while driving a transaction through
// reconciliation, preserving the context operators need
type SettlementError struct {
	Reference string
	UserID    uint64
	Stage     string // fetch, mark_processing, verify, claim, wallet_credit
	Amount    string
	Err       error
}

// Error implements the error interface for SettlementError
func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed for %s at stage %s (user: %d, amount: %s): %v",
		e.Reference, e.Stage, e.UserID, e.Amount, e.Err)
}

// Unwrap returns the underlying error
func (e *SettlementError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *SettlementError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "settlement_error",
		"reference":  e.Reference,
		"user_id":    e.UserID,
		"stage":      e.Stage,
		"amount":     e.Amount,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewSettlementError creates a detailed settlement error
func NewSettlementError(reference string, userID uint64, stage, amount string, err error) error {
	return &SettlementError{
		Reference: reference,
		UserID:    userID,
		Stage:     stage,
		Amount:    amount,
		Err:       err,
	}
}

// IsGatewayUnavailableError checks for transport-level gateway failures
func IsGatewayUnavailableError(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable)
}

// IsGatewayRejectedError checks for explicit gateway declines
func IsGatewayRejectedError(err error) bool {
	return errors.Is(err, ErrGatewayRejected)
}

// IsValidationError checks for gateway-reported validation failures
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsVerificationError checks for exhausted verification attempts
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrVerification)
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrWalletNotFound)
}

// IsRetryable reports whether an error is transient and worth another
// attempt. Gateway declines and validation failures are final; transport
// and persistence failures are not.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrGatewayUnavailable) || errors.Is(err, ErrLedgerWrite)
}
