package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/payment"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/reconcile"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/dto"
)

// PaymentHandler handles payment initiation and lookup HTTP requests
type PaymentHandler struct {
	paymentService *payment.Service
	reconciler     *reconcile.Reconciler
	logger         coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(
	paymentService *payment.Service,
	reconciler *reconcile.Reconciler,
	logger coreport.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		reconciler:     reconciler,
		logger:         logger,
	}
}

// InitializeDeposit handles the POST /payments/deposit endpoint
func (h *PaymentHandler) InitializeDeposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidAmount),
			Message: "Invalid amount format",
		})
		return
	}

	intent, err := h.paymentService.InitializeDeposit(c.Request.Context(), req.UserID, req.Email, amount)
	if err != nil {
		h.logger.Error("Failed to initialize deposit", map[string]any{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DepositResponse{
		Reference:        intent.Reference,
		AuthorizationURL: intent.AuthorizationURL,
		AccessCode:       intent.AccessCode,
	})
}

// InitializeWithdrawal handles the POST /payments/withdrawal endpoint
func (h *PaymentHandler) InitializeWithdrawal(c *gin.Context) {
	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidAmount),
			Message: "Invalid amount format",
		})
		return
	}

	intent, err := h.paymentService.InitializeWithdrawal(c.Request.Context(), req.UserID, amount, req.AccountNumber, req.BankCode)
	if err != nil {
		h.logger.Error("Failed to initialize withdrawal", map[string]any{
			"user_id": req.UserID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.WithdrawalResponse{
		Reference:   intent.Reference,
		AccountName: intent.AccountName,
		Status:      string(intent.Status),
	})
}

// GetTransaction handles the GET /payments/:reference endpoint
func (h *PaymentHandler) GetTransaction(c *gin.Context) {
	reference := c.Param("reference")

	txn, err := h.paymentService.GetTransaction(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionResponse(txn))
}

// Reconcile handles the POST /payments/:reference/reconcile endpoint. It
// drives one verification pass against the gateway on demand.
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	reference := c.Param("reference")

	txn, err := h.reconciler.Reconcile(c.Request.Context(), reference)
	if err != nil {
		h.logger.Error("Manual reconciliation failed", map[string]any{
			"reference": reference,
			"error":     err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactionResponse(txn))
}

func transactionResponse(txn *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		Reference:  txn.Reference,
		UserID:     txn.UserID,
		Type:       string(txn.Type),
		Amount:     txn.Amount.String(),
		Status:     string(txn.Status),
		Settled:    txn.Settled,
		RetryCount: txn.RetryCount,
		Metadata:   txn.Metadata,
		CreatedAt:  txn.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  txn.UpdatedAt.Format(time.RFC3339),
	}
}
