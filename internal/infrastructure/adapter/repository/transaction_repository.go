package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the TransactionRepository port using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create saves a new pending transaction, reserving its reference
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
		"type":      transaction.Type,
	})

	transactionModel := model.TransactionFromEntity(transaction)

	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction reference", map[string]any{
				"reference": transaction.Reference,
				"user_id":   transaction.UserID,
			})
			return errs.ErrDuplicateReference
		}
		r.logger.Error("Failed to create transaction", map[string]any{
			"reference": transaction.Reference,
			"user_id":   transaction.UserID,
			"error":     result.Error.Error(),
		})
		return r.errorClassifier.WrapLedgerError(result.Error)
	}

	transaction.ID = transactionModel.ID

	r.logger.Info("Transaction created", map[string]any{
		"reference": transaction.Reference,
		"user_id":   transaction.UserID,
		"type":      transaction.Type,
	})
	return nil
}

// GetByReference retrieves a transaction by its gateway reference
func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&transactionModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return nil, r.errorClassifier.WrapLedgerError(result.Error)
	}

	return transactionModel.ToEntity(), nil
}

// GetByID retrieves a transaction by its ledger identifier
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).First(&transactionModel, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"id":    id,
			"error": result.Error.Error(),
		})
		return nil, r.errorClassifier.WrapLedgerError(result.Error)
	}

	return transactionModel.ToEntity(), nil
}

// MarkProcessing moves a pending or retrying transaction into processing.
// A no-op when the transaction is already terminal or already processing.
func (r *TransactionRepository) MarkProcessing(ctx context.Context, reference string) error {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ? AND status IN ?", reference,
			[]string{string(entity.StatusPending), string(entity.StatusRetrying)}).
		Update("status", string(entity.StatusProcessing))

	if result.Error != nil {
		r.logger.Error("Failed to mark transaction processing", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return r.errorClassifier.WrapLedgerError(result.Error)
	}

	return nil
}

// MarkRetrying moves an unsettled transaction into retrying and increments
// its retry count, guarded by the retry ceiling
func (r *TransactionRepository) MarkRetrying(ctx context.Context, reference string, ceiling int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ? AND settled = ? AND retry_count < ?", reference, false, ceiling).
		Updates(map[string]any{
			"status":      string(entity.StatusRetrying),
			"retry_count": gorm.Expr("retry_count + 1"),
		})

	if result.Error != nil {
		r.logger.Error("Failed to mark transaction retrying", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return false, r.errorClassifier.WrapLedgerError(result.Error)
	}

	return result.RowsAffected > 0, nil
}

// MergeMetadata merges the given keys into the transaction's metadata
// document, preserving existing keys not named in meta
func (r *TransactionRepository) MergeMetadata(ctx context.Context, reference string, meta entity.Metadata) error {
	if len(meta) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ?", reference).
		Update("metadata", gorm.Expr("COALESCE(metadata, '{}'::jsonb) || ?", model.JSON(meta)))

	if result.Error != nil {
		r.logger.Error("Failed to merge transaction metadata", map[string]any{
			"reference": reference,
			"error":     result.Error.Error(),
		})
		return r.errorClassifier.WrapLedgerError(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}

	return nil
}

// ClaimSettlement atomically moves the transaction into the terminal status
// and flips its settled flag in a single conditional update. The settled
// guard ensures exactly one driver wins the claim.
func (r *TransactionRepository) ClaimSettlement(ctx context.Context, reference string, status entity.TransactionStatus, meta entity.Metadata) (*entity.Transaction, bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("reference = ? AND settled = ?", reference, false).
		Updates(map[string]any{
			"status":   string(status),
			"settled":  true,
			"metadata": gorm.Expr("COALESCE(metadata, '{}'::jsonb) || ?", model.JSON(meta)),
		})

	if result.Error != nil {
		r.logger.Error("Failed to claim settlement", map[string]any{
			"reference": reference,
			"status":    status,
			"error":     result.Error.Error(),
		})
		return nil, false, r.errorClassifier.WrapLedgerError(result.Error)
	}

	claimed := result.RowsAffected > 0

	transaction, err := r.GetByReference(ctx, reference)
	if err != nil {
		return nil, false, err
	}

	if claimed {
		r.logger.Info("Settlement claimed", map[string]any{
			"reference": reference,
			"status":    status,
		})
	} else {
		r.logger.Debug("Settlement already claimed by another driver", map[string]any{
			"reference": reference,
			"status":    transaction.Status,
		})
	}

	return transaction, claimed, nil
}

// FindRetriable returns unsettled transactions eligible for a recovery pass
func (r *TransactionRepository) FindRetriable(ctx context.Context, ceiling int, staleBefore time.Time, limit int) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	result := r.db.WithContext(ctx).
		Where("settled = ?", false).
		Where(
			r.db.Where("status IN ? AND retry_count < ?",
				[]string{string(entity.StatusFailed), string(entity.StatusRetrying)}, ceiling).
				Or("status IN ? AND updated_at < ?",
					[]string{string(entity.StatusPending), string(entity.StatusProcessing)}, staleBefore),
		).
		Order("updated_at ASC").
		Limit(limit).
		Find(&rows)

	if result.Error != nil {
		r.logger.Error("Failed to find retriable transactions", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, r.errorClassifier.WrapLedgerError(result.Error)
	}

	transactions := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		transactions = append(transactions, rows[i].ToEntity())
	}
	return transactions, nil
}

// FailureStats returns how many transactions settled as failed and how many
// settled in total since the given time
func (r *TransactionRepository) FailureStats(ctx context.Context, since time.Time) (int64, int64, error) {
	var stats struct {
		Failed int64
		Total  int64
	}

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COUNT(*) FILTER (WHERE status = ?) AS failed, COUNT(*) AS total",
			string(entity.StatusFailed)).
		Where("settled = ? AND updated_at >= ?", true, since).
		Scan(&stats)

	if result.Error != nil {
		r.logger.Error("Failed to read failure stats", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, 0, r.errorClassifier.WrapLedgerError(result.Error)
	}

	return stats.Failed, stats.Total, nil
}
