package repository

import (
	"fmt"
	"strings"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
)

// ErrorClassifier provides methods to classify database errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// IsDuplicateKeyError checks if the error is a duplicate key error
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "EOF") ||
		strings.Contains(err.Error(), "server closed") ||
		strings.Contains(err.Error(), "broken pipe")
}

// WrapLedgerError wraps a failed ledger statement. Transient driver
// failures come back as ErrLedgerWrite so the retry executor re-drives
// them; anything else is permanent and must not be retried.
func (c *ErrorClassifier) WrapLedgerError(err error) error {
	if c.IsTransientError(err) {
		return fmt.Errorf("%w: %s", errs.ErrLedgerWrite, err.Error())
	}
	return fmt.Errorf("ledger statement failed: %s", err.Error())
}
