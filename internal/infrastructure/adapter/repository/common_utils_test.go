package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
)

func TestErrorClassifier_IsDuplicateKeyError(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"postgres duplicate key", errors.New(`duplicate key value violates unique constraint "idx_transactions_reference"`), true},
		{"sqlite unique constraint", errors.New("UNIQUE constraint failed: transactions.reference"), true},
		{"unrelated error", errors.New("relation does not exist"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.IsDuplicateKeyError(tt.err))
		})
	}
}

func TestErrorClassifier_IsTransientError(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"timeout", errors.New("context deadline exceeded (timeout)"), true},
		{"server closed", errors.New("sql: database is closed, server closed the connection"), true},
		{"syntax error", errors.New(`syntax error at or near "WHRE"`), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.IsTransientError(tt.err))
		})
	}
}

func TestErrorClassifier_WrapLedgerError(t *testing.T) {
	classifier := NewErrorClassifier()

	t.Run("should keep transient failures retryable", func(t *testing.T) {
		wrapped := classifier.WrapLedgerError(errors.New("read tcp: connection reset by peer"))

		assert.ErrorIs(t, wrapped, errs.ErrLedgerWrite)
		assert.True(t, errs.IsRetryable(wrapped))
	})

	t.Run("should make permanent failures non-retryable", func(t *testing.T) {
		wrapped := classifier.WrapLedgerError(errors.New(`column "settled" does not exist`))

		assert.NotErrorIs(t, wrapped, errs.ErrLedgerWrite)
		assert.False(t, errs.IsRetryable(wrapped))
		assert.Contains(t, wrapped.Error(), "does not exist")
	})
}
