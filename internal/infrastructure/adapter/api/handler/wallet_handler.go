package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/payment"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/dto"
)

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	paymentService *payment.Service
	logger         coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(paymentService *payment.Service, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// GetBalance handles the GET /wallets/:userId/balance endpoint
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userIDParam := c.Param("userId")
	userID, err := strconv.ParseUint(userIDParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    errs.ErrorCode(errs.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return
	}

	balance, err := h.paymentService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get wallet balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:  userID,
		Balance: balance.String(),
	})
}
