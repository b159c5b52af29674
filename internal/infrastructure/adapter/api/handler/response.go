package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/api/dto"
)

// respondError maps domain errors to HTTP status codes and writes the
// standardized error body
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errs.IsValidationError(err),
		errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrInvalidRequest),
		errors.Is(err, errs.ErrInvalidUserID):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, errs.ErrDuplicateReference):
		status = http.StatusConflict
		message = "Reference already exists"
	case errs.IsNotFoundError(err):
		status = http.StatusNotFound
		message = "Not found"
	case errs.IsInsufficientBalanceError(err):
		status = http.StatusUnprocessableEntity
		message = "Insufficient balance"
	case errs.IsGatewayUnavailableError(err), errs.IsGatewayRejectedError(err):
		status = http.StatusBadGateway
		message = "Payment gateway error"
	case errs.IsVerificationError(err):
		status = http.StatusAccepted
		message = "Verification pending, the transaction will be retried"
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: message,
	})
}
