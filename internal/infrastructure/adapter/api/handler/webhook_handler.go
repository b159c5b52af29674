package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/reconcile"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/dto"
)

const signatureHeader = "x-paystack-signature"

// WebhookHandler receives gateway event notifications
type WebhookHandler struct {
	processor *reconcile.WebhookProcessor
	logger    coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(processor *reconcile.WebhookProcessor, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    logger,
	}
}

// Receive handles the POST /webhooks/paystack endpoint. The raw body is
// needed for signature verification, so binding happens downstream.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidRequest),
			Message: "Unreadable request body",
		})
		return
	}

	outcome, err := h.processor.Process(c.Request.Context(), body, c.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, errs.ErrInvalidSignature) {
			h.logger.Warn("Webhook signature rejected", map[string]any{
				"ip": c.ClientIP(),
			})
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    errs.ErrorCode(err),
				Message: "Invalid signature",
			})
			return
		}

		// A non-2xx tells the gateway to redeliver the event later
		h.logger.Error("Webhook processing failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    errs.ErrorCode(err),
			Message: "Event could not be recorded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": outcome})
}
