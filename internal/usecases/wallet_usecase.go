package usecases

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/gateways"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/repositories"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/metrics"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/logger"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/utils"
)

const (
	topUpDescription      = "Wallet top-up"
	withdrawalDescription = "Wallet withdrawal"
	topUpPendingStatus    = "pending"

	defaultTransactionLimit = 20
	maxTransactionLimit     = 100
)

// WalletOptions holds checkout and top-up policy for the wallet usecase
type WalletOptions struct {
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
	MinTopUp    decimal.Decimal
	// MaxTopUp of zero means unlimited
	MaxTopUp decimal.Decimal
	// CheckoutTTL closes checkouts before the expiry job can fail their top-up; zero keeps the gateway default
	CheckoutTTL time.Duration
}

// WalletUsecase handles wallet business logic
type WalletUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
	uow        repositories.UnitOfWork
	gateway    gateways.PaymentGateway
	opts       WalletOptions
	newID      func() uuid.UUID
	now        func() time.Time
}

// NewWalletUsecase creates a new wallet usecase
func NewWalletUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.WalletTransactionRepository,
	uow repositories.UnitOfWork,
	gateway gateways.PaymentGateway,
	opts WalletOptions,
) *WalletUsecase {
	return &WalletUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		uow:        uow,
		gateway:    gateway,
		opts:       opts,
		newID:      utils.GenerateUUIDv7,
		now:        time.Now,
	}
}

// GetBalance returns the account's balance, creating an empty wallet on first access
func (u *WalletUsecase) GetBalance(ctx context.Context, accountID uuid.UUID) (*entities.BalanceSummary, error) {
	wallet, err := u.ensureWallet(ctx, accountID)
	if err != nil {
		return nil, domainerrors.FromError(err)
	}
	return wallet.Summary(), nil
}

// GetWallet returns the full wallet record without creating one
func (u *WalletUsecase) GetWallet(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("wallet not found")
		}
		return nil, domainerrors.FromError(err)
	}
	return wallet, nil
}

// AddFunds records a PENDING credit and opens a hosted checkout for it.
// The balance is untouched until the gateway confirms payment.
func (u *WalletUsecase) AddFunds(ctx context.Context, accountID uuid.UUID, role string, amount decimal.Decimal) (*entities.AddFundsResult, error) {
	if err := u.validateTopUpAmount(amount); err != nil {
		metrics.TopUpsCreated.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}
	if !u.gateway.Configured() {
		metrics.TopUpsCreated.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, domainerrors.ServiceUnavailable("payment gateway is not configured")
	}

	wallet, err := u.ensureWallet(ctx, accountID)
	if err != nil {
		return nil, domainerrors.FromError(err)
	}

	tx := &entities.WalletTransaction{
		ID:            u.newID(),
		WalletID:      wallet.ID,
		AccountID:     accountID,
		Amount:        amount,
		Type:          entities.WalletTransactionTypeCredit,
		Status:        entities.WalletTransactionStatusPending,
		BalanceBefore: wallet.Balance,
		Description:   null.StringFrom(topUpDescription),
		UserRole:      role,
	}
	if err := u.txRepo.Create(ctx, tx); err != nil {
		return nil, domainerrors.FromError(err)
	}

	input := gateways.CheckoutSessionInput{
		Amount:      amount,
		Currency:    u.opts.Currency,
		ProductName: u.opts.ProductName,
		SuccessURL:  u.opts.SuccessURL,
		CancelURL:   u.opts.CancelURL,
		Metadata: entities.TopUpMetadata{
			TransactionID: tx.ID,
			AccountID:     accountID,
			Amount:        amount,
			Kind:          entities.TopUpKind,
			Role:          role,
		},
	}
	if u.opts.CheckoutTTL > 0 {
		input.ExpiresAt = u.now().Add(u.opts.CheckoutTTL)
	}

	session, err := u.gateway.CreateCheckoutSession(ctx, input)
	if err != nil {
		metrics.TopUpsCreated.WithLabelValues(metrics.OutcomeFailed).Inc()
		logger.Error(ctx, "Failed to create checkout session",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
		return nil, domainerrors.FromError(err)
	}

	if err := u.txRepo.SetPaymentReference(ctx, tx.ID, session.ID); err != nil {
		logger.Error(ctx, "Failed to store checkout session id",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return nil, domainerrors.FromError(err)
	}

	metrics.TopUpsCreated.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info(ctx, "Top-up checkout created",
		zap.String("account_id", accountID.String()),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("amount", amount.String()),
	)

	return &entities.AddFundsResult{
		CheckoutURL:   session.URL,
		SessionID:     session.ID,
		TransactionID: tx.ID,
		Amount:        amount,
		Status:        topUpPendingStatus,
	}, nil
}

// WithdrawFunds debits the wallet and appends a COMPLETED debit in one transaction
func (u *WalletUsecase) WithdrawFunds(ctx context.Context, accountID uuid.UUID, amount decimal.Decimal) (*entities.WithdrawResult, error) {
	if err := validateAmount(amount); err != nil {
		metrics.Withdrawals.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	var result *entities.WithdrawResult
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		wallet, err := u.walletRepo.GetByAccountID(lockCtx, accountID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("wallet not found")
			}
			return err
		}

		if wallet.Balance.LessThan(amount) {
			return domainerrors.InsufficientFunds("insufficient wallet balance")
		}

		before := wallet.Balance
		wallet.Balance = before.Sub(amount)
		wallet.TotalWithdrawals = wallet.TotalWithdrawals.Add(amount)
		if err := u.walletRepo.UpdateBalances(lockCtx, wallet); err != nil {
			return err
		}

		now := u.now()
		tx := &entities.WalletTransaction{
			ID:            u.newID(),
			WalletID:      wallet.ID,
			AccountID:     accountID,
			Amount:        amount,
			Type:          entities.WalletTransactionTypeDebit,
			Status:        entities.WalletTransactionStatusCompleted,
			BalanceBefore: before,
			BalanceAfter:  decimal.NewNullDecimal(wallet.Balance),
			Description:   null.StringFrom(withdrawalDescription),
			CompletedAt:   null.TimeFrom(now),
			CreatedAt:     now,
		}
		if err := u.txRepo.Create(lockCtx, tx); err != nil {
			return err
		}

		result = &entities.WithdrawResult{
			Balance:     wallet.Balance,
			Transaction: tx,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrInsufficientFunds) {
			metrics.Withdrawals.WithLabelValues(metrics.OutcomeInsufficientFunds).Inc()
		} else {
			metrics.Withdrawals.WithLabelValues(metrics.OutcomeFailed).Inc()
		}
		return nil, domainerrors.FromError(err)
	}

	metrics.Withdrawals.WithLabelValues(metrics.OutcomeSuccess).Inc()
	logger.Info(ctx, "Wallet withdrawal completed",
		zap.String("account_id", accountID.String()),
		zap.String("amount", amount.String()),
		zap.String("balance", result.Balance.String()),
	)
	return result, nil
}

// ListTransactions returns one page of the account's ledger, newest first
func (u *WalletUsecase) ListTransactions(ctx context.Context, accountID uuid.UUID, filter entities.WalletTransactionFilter, pagination utils.PaginationParams) ([]*entities.WalletTransaction, utils.PaginationMeta, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest("invalid transaction type")
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.PaginationMeta{}, domainerrors.BadRequest("invalid transaction status")
	}

	pagination = pagination.WithDefaults(defaultTransactionLimit, maxTransactionLimit)
	filter.Limit = pagination.Limit
	filter.Offset = pagination.CalculateOffset()

	items, total, err := u.txRepo.ListByAccountID(ctx, accountID, filter)
	if err != nil {
		return nil, utils.PaginationMeta{}, domainerrors.FromError(err)
	}
	return items, utils.CalculateMeta(total, pagination.CurrentPage(), pagination.Limit), nil
}

// GetTransactionStats aggregates the account's completed credits and debits
func (u *WalletUsecase) GetTransactionStats(ctx context.Context, accountID uuid.UUID) (*entities.WalletTransactionStats, error) {
	stats, err := u.txRepo.StatsByAccountID(ctx, accountID)
	if err != nil {
		return nil, domainerrors.FromError(err)
	}
	return stats, nil
}

// ensureWallet returns the account's wallet, creating a zero-balance one if missing.
// Two first requests racing to create it both end up with the same row.
func (u *WalletUsecase) ensureWallet(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	wallet, err := u.walletRepo.GetByAccountID(ctx, accountID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	wallet = entities.NewWallet(u.newID(), accountID)
	createErr := u.walletRepo.Create(ctx, wallet)
	if createErr == nil {
		logger.Info(ctx, "Wallet created", zap.String("account_id", accountID.String()))
		return wallet, nil
	}

	existing, err := u.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, createErr
	}
	return existing, nil
}

func (u *WalletUsecase) validateTopUpAmount(amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount.LessThan(u.opts.MinTopUp) {
		return domainerrors.BadRequest("amount is below the minimum top-up of " + u.opts.MinTopUp.String())
	}
	if u.opts.MaxTopUp.IsPositive() && amount.GreaterThan(u.opts.MaxTopUp) {
		return domainerrors.BadRequest("amount exceeds the maximum top-up of " + u.opts.MaxTopUp.String())
	}
	return nil
}

// validateAmount accepts positive amounts up to MaxAmount with at most two decimal places
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest, "amount must be greater than zero", domainerrors.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest, "amount must have at most two decimal places", domainerrors.ErrInvalidAmount)
	}
	if amount.GreaterThan(entities.MaxAmount) {
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeBadRequest, "amount must not exceed "+entities.MaxAmount.String(), domainerrors.ErrInvalidAmount)
	}
	return nil
}
