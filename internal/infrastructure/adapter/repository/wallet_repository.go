package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/model"
)

// WalletRepository implements the WalletRepository port using GORM. Credit
// and Debit run as single UPDATE expressions so concurrent mutations never
// lose increments.
type WalletRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewWalletRepository creates a new WalletRepository instance
func NewWalletRepository(db *gorm.DB, logger coreport.Logger) *WalletRepository {
	return &WalletRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// GetByUserID retrieves a user's wallet
func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint64) (*entity.Wallet, error) {
	var walletModel model.Wallet
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&walletModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrWalletNotFound
		}
		r.logger.Error("Failed to get wallet", map[string]any{
			"user_id": userID,
			"error":   result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrLedgerWrite, result.Error.Error())
	}

	return walletModel.ToEntity(), nil
}

// Create creates a wallet record
func (r *WalletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	walletModel := model.WalletFromEntity(wallet)

	result := r.db.WithContext(ctx).Create(walletModel)
	if result.Error != nil {
		r.logger.Error("Failed to create wallet", map[string]any{
			"user_id": wallet.UserID,
			"error":   result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrLedgerWrite, result.Error.Error())
	}

	r.logger.Info("Wallet created", map[string]any{
		"user_id": wallet.UserID,
	})
	return nil
}

// Credit atomically increases the balance and returns the new balance
func (r *WalletRepository) Credit(ctx context.Context, userID uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		r.logger.Error("Failed to credit wallet", map[string]any{
			"user_id": userID,
			"amount":  amount.String(),
			"error":   result.Error.Error(),
		})
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrWalletMutation, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return decimal.Zero, errs.ErrWalletNotFound
	}

	balance, err := r.currentBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	r.logger.Info("Wallet credited", map[string]any{
		"user_id": userID,
		"amount":  amount.String(),
		"balance": balance.String(),
	})
	return balance, nil
}

// Debit atomically decreases the balance, guarded by balance sufficiency in
// the same statement, and returns the new balance
func (r *WalletRepository) Debit(ctx context.Context, userID uint64, amount decimal.Decimal) (decimal.Decimal, error) {
	result := r.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))

	if result.Error != nil {
		r.logger.Error("Failed to debit wallet", map[string]any{
			"user_id": userID,
			"amount":  amount.String(),
			"error":   result.Error.Error(),
		})
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrWalletMutation, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		// Distinguish a missing wallet from an insufficient balance
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return decimal.Zero, err
		}
		r.logger.Warn("Debit rejected, insufficient balance", map[string]any{
			"user_id": userID,
			"amount":  amount.String(),
		})
		return decimal.Zero, errs.ErrInsufficientBalance
	}

	balance, err := r.currentBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	r.logger.Info("Wallet debited", map[string]any{
		"user_id": userID,
		"amount":  amount.String(),
		"balance": balance.String(),
	})
	return balance, nil
}

func (r *WalletRepository) currentBalance(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	wallet, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return wallet.Balance, nil
}
