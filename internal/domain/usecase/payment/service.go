package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sodiq-adeyemi/marketpay/internal/domain/entity"
	errs "github.com/sodiq-adeyemi/marketpay/internal/domain/error"
	coreport "github.com/sodiq-adeyemi/marketpay/internal/domain/port/core"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/gateway"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/port/persistence"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/retry"
	"github.com/sodiq-adeyemi/marketpay/internal/domain/usecase/reconcile"
)

// DepositIntent is returned to the caller after a deposit is initialized;
// the payer is redirected to AuthorizationURL and the app polls Reference.
type DepositIntent struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

// WithdrawalIntent is returned after a withdrawal is initiated. Status may
// already be terminal for immediately-settled transfers.
type WithdrawalIntent struct {
	Reference   string
	AccountName string
	Status      entity.TransactionStatus
}

// Service owns the initiation flows: it reserves references in the ledger,
// drives the gateway's initialize operations and, for withdrawals, takes
// the wallet hold that the reconciler later confirms or refunds.
type Service struct {
	transactionRepo persistence.TransactionRepository
	walletRepo      persistence.WalletRepository
	walletCache     persistence.WalletCache
	gatewayClient   gateway.Client
	reconciler      *reconcile.Reconciler
	executor        *retry.Executor
	logger          coreport.Logger
	timeProvider    coreport.TimeProvider
}

// NewService creates the payment service. walletCache may be nil.
func NewService(
	transactionRepo persistence.TransactionRepository,
	walletRepo persistence.WalletRepository,
	walletCache persistence.WalletCache,
	gatewayClient gateway.Client,
	reconciler *reconcile.Reconciler,
	executor *retry.Executor,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		walletRepo:      walletRepo,
		walletCache:     walletCache,
		gatewayClient:   gatewayClient,
		reconciler:      reconciler,
		executor:        executor.WithRetryable(errs.IsRetryable),
		logger:          logger,
		timeProvider:    timeProvider,
	}
}

// NewReference allocates a caller-chosen unique reference correlating the
// local transaction with the gateway's record
func NewReference() string {
	return "TXN_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// InitializeDeposit starts an inbound payment: it asks the gateway for a
// charge authorization and records a pending transaction reserving the
// reference before returning.
func (s *Service) InitializeDeposit(ctx context.Context, userID uint64, email string, amount decimal.Decimal) (*DepositIntent, error) {
	if !amount.IsPositive() {
		return nil, errs.ErrInvalidAmount
	}
	if email == "" {
		return nil, errs.ErrInvalidRequest
	}
	if err := s.ensureWallet(ctx, userID); err != nil {
		return nil, err
	}

	reference := NewReference()
	txn, err := entity.NewTransaction(userID, reference, entity.TypeDeposit, amount, entity.SenderUser, s.timeProvider)
	if err != nil {
		return nil, err
	}

	var auth *gateway.ChargeAuthorization
	err = s.executor.Do(ctx, "gateway_initialize_charge", func(ctx context.Context) error {
		var opErr error
		auth, opErr = s.gatewayClient.InitializeCharge(ctx, amount, email, reference, entity.Metadata{
			"user_id": userID,
			"purpose": "wallet_funding",
		})
		return opErr
	})
	if err != nil {
		s.logger.Error("Charge initialization failed", map[string]any{
			"reference": reference,
			"user_id":   userID,
			"amount":    amount.String(),
			"error":     err.Error(),
		})
		return nil, err
	}

	txn.Metadata = txn.Metadata.Merge(entity.Metadata{
		"email":             email,
		"authorization_url": auth.AuthorizationURL,
		"access_code":       auth.AccessCode,
	})

	if err := s.createTransaction(ctx, txn); err != nil {
		return nil, err
	}

	s.logger.Info("Deposit initialized", map[string]any{
		"reference": reference,
		"user_id":   userID,
		"amount":    amount.String(),
	})

	return &DepositIntent{
		Reference:        reference,
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
	}, nil
}

// InitializeWithdrawal starts an outbound payout: resolve the destination
// account, register a transfer recipient, hold the funds in the wallet,
// record the pending transaction and initiate the transfer. The hold keeps
// a user from over-withdrawing while an async transfer is outstanding; the
// reconciler refunds it if the transfer settles failed or reversed.
func (s *Service) InitializeWithdrawal(ctx context.Context, userID uint64, amount decimal.Decimal, accountNumber, bankCode string) (*WithdrawalIntent, error) {
	if !amount.IsPositive() {
		return nil, errs.ErrInvalidAmount
	}
	if accountNumber == "" || bankCode == "" {
		return nil, errs.ErrInvalidRequest
	}

	accountName, err := s.resolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}

	recipientCode, err := s.createRecipient(ctx, accountName, accountNumber, bankCode)
	if err != nil {
		return nil, err
	}

	reference := NewReference()
	txn, err := entity.NewTransaction(userID, reference, entity.TypeWithdrawal, amount, entity.SenderUser, s.timeProvider)
	if err != nil {
		return nil, err
	}
	txn.Metadata = txn.Metadata.Merge(entity.Metadata{
		"account_number": accountNumber,
		"account_name":   accountName,
		"bank_code":      bankCode,
		"recipient_code": recipientCode,
		"hold_applied":   true,
	})

	// Hold the funds before anything irreversible happens gateway-side.
	if _, err := s.walletRepo.Debit(ctx, userID, amount); err != nil {
		s.logger.Warn("Withdrawal hold rejected", map[string]any{
			"reference": reference,
			"user_id":   userID,
			"amount":    amount.String(),
			"error":     err.Error(),
		})
		return nil, err
	}
	s.invalidateBalance(ctx, userID)

	if err := s.createTransaction(ctx, txn); err != nil {
		// The hold is in place but the ledger has no record of it; give the
		// money back before surfacing the error.
		s.releaseHold(ctx, userID, amount, reference)
		return nil, err
	}

	handle, err := s.initiateTransfer(ctx, txn, recipientCode)
	if err != nil {
		if errs.IsGatewayUnavailableError(err) {
			// Ambiguous outcome: the request may have reached the gateway.
			// Leave the transaction pending with the hold in place; the
			// recovery sweep verifies the transfer once it goes stale.
			s.logger.Warn("Transfer outcome unknown, leaving transaction pending", map[string]any{
				"reference": reference,
				"user_id":   userID,
				"amount":    amount.String(),
				"error":     err.Error(),
			})
			if mergeErr := s.transactionRepo.MergeMetadata(ctx, reference, entity.Metadata{
				"transfer_init_error": err.Error(),
			}); mergeErr != nil {
				s.logger.Warn("Failed to record transfer initiation error", map[string]any{
					"reference": reference,
					"error":     mergeErr.Error(),
				})
			}
			return &WithdrawalIntent{Reference: reference, AccountName: accountName, Status: txn.Status}, err
		}

		// Definitive rejection: the transfer never started. Settle the
		// transaction as failed so the claim path refunds the hold exactly
		// once.
		failMeta := entity.Metadata{"gateway_error": err.Error()}
		if settled, applyErr := s.reconciler.Apply(ctx, txn, gateway.StatusFailed, failMeta); applyErr == nil {
			return &WithdrawalIntent{Reference: reference, AccountName: accountName, Status: settled.Status}, err
		}
		return nil, err
	}

	if mergeErr := s.transactionRepo.MergeMetadata(ctx, reference, entity.Metadata{
		"transfer_code": handle.TransferCode,
	}); mergeErr != nil {
		s.logger.Warn("Failed to record transfer code", map[string]any{
			"reference": reference,
			"error":     mergeErr.Error(),
		})
	}

	status := txn.Status
	if handle.Status.IsTerminal() {
		// Some transfers settle synchronously; converge through the same
		// transition function as everything else.
		settled, applyErr := s.reconciler.Apply(ctx, txn, handle.Status, entity.Metadata{
			"transfer_code": handle.TransferCode,
		})
		if applyErr != nil {
			return nil, applyErr
		}
		status = settled.Status
	}

	s.logger.Info("Withdrawal initiated", map[string]any{
		"reference": reference,
		"user_id":   userID,
		"amount":    amount.String(),
		"status":    status,
	})

	return &WithdrawalIntent{
		Reference:   reference,
		AccountName: accountName,
		Status:      status,
	}, nil
}

// GetBalance returns the user's wallet balance, serving from the cache
// when possible
func (s *Service) GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	if s.walletCache != nil {
		if balance, ok := s.walletCache.GetBalance(ctx, userID); ok {
			return balance, nil
		}
	}

	wallet, err := s.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if s.walletCache != nil {
		s.walletCache.SetBalance(ctx, userID, wallet.Balance)
	}
	return wallet.Balance, nil
}

// GetTransaction exposes the stored transaction for the app's receipts
func (s *Service) GetTransaction(ctx context.Context, reference string) (*entity.Transaction, error) {
	return s.transactionRepo.GetByReference(ctx, reference)
}

// ensureWallet creates a zero-balance wallet for first-time users
func (s *Service) ensureWallet(ctx context.Context, userID uint64) error {
	_, err := s.walletRepo.GetByUserID(ctx, userID)
	if err == nil {
		return nil
	}
	if !errs.IsNotFoundError(err) {
		return err
	}

	wallet, walletErr := entity.NewWallet(userID, decimal.Zero, s.timeProvider)
	if walletErr != nil {
		return walletErr
	}
	return s.walletRepo.Create(ctx, wallet)
}

// resolveAccount confirms the destination account with the gateway
func (s *Service) resolveAccount(ctx context.Context, accountNumber, bankCode string) (string, error) {
	var name string
	err := s.executor.Do(ctx, "gateway_resolve_account", func(ctx context.Context) error {
		var opErr error
		name, opErr = s.gatewayClient.ResolveBankAccount(ctx, accountNumber, bankCode)
		return opErr
	})
	if err != nil {
		s.logger.Warn("Bank account resolution failed", map[string]any{
			"account_number": accountNumber,
			"bank_code":      bankCode,
			"error":          err.Error(),
		})
		return "", err
	}
	return name, nil
}

// createRecipient registers the payout target gateway-side
func (s *Service) createRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	var code string
	err := s.executor.Do(ctx, "gateway_create_recipient", func(ctx context.Context) error {
		var opErr error
		code, opErr = s.gatewayClient.CreateTransferRecipient(ctx, name, accountNumber, bankCode)
		return opErr
	})
	if err != nil {
		s.logger.Error("Transfer recipient creation failed", map[string]any{
			"account_number": accountNumber,
			"bank_code":      bankCode,
			"error":          err.Error(),
		})
		return "", err
	}
	return code, nil
}

// createTransaction reserves the reference in the ledger
func (s *Service) createTransaction(ctx context.Context, txn *entity.Transaction) error {
	err := s.executor.Do(ctx, "ledger_create_transaction", func(ctx context.Context) error {
		return s.transactionRepo.Create(ctx, txn)
	})
	if err != nil {
		s.logger.Error("Failed to record pending transaction", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"type":      txn.Type,
			"amount":    txn.Amount.String(),
			"error":     err.Error(),
		})
	}
	return err
}

// initiateTransfer starts the payout
func (s *Service) initiateTransfer(ctx context.Context, txn *entity.Transaction, recipientCode string) (*gateway.TransferHandle, error) {
	var handle *gateway.TransferHandle
	err := s.executor.Do(ctx, "gateway_initiate_transfer", func(ctx context.Context) error {
		var opErr error
		handle, opErr = s.gatewayClient.InitiateTransfer(ctx, txn.Amount, recipientCode, txn.Reference, "wallet withdrawal")
		return opErr
	})
	if err != nil {
		s.logger.Error("Transfer initiation failed", map[string]any{
			"reference": txn.Reference,
			"user_id":   txn.UserID,
			"amount":    txn.Amount.String(),
			"error":     err.Error(),
		})
		return nil, err
	}
	return handle, nil
}

// releaseHold compensates a hold whose transaction record never existed
func (s *Service) releaseHold(ctx context.Context, userID uint64, amount decimal.Decimal, reference string) {
	if _, err := s.walletRepo.Credit(ctx, userID, amount); err != nil {
		s.logger.Error("Failed to release withdrawal hold", map[string]any{
			"reference": reference,
			"user_id":   userID,
			"amount":    amount.String(),
			"error":     err.Error(),
		})
		return
	}
	s.invalidateBalance(ctx, userID)
}

// invalidateBalance drops the cached balance after a mutation
func (s *Service) invalidateBalance(ctx context.Context, userID uint64) {
	if s.walletCache != nil {
		s.walletCache.Invalidate(ctx, userID)
	}
}
