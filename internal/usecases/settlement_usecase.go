package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/gateways"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/repositories"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/metrics"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/logger"
)

const paymentStatusUnpaid = "unpaid"

// SettlementUsecase credits wallets when the payment gateway confirms a top-up
type SettlementUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
	uow        repositories.UnitOfWork
	gateway    gateways.PaymentGateway
	notifier   gateways.SettlementNotifier
	tutorRole  string
	now        func() time.Time
}

// NewSettlementUsecase creates a new settlement usecase. notifier may be nil.
func NewSettlementUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.WalletTransactionRepository,
	uow repositories.UnitOfWork,
	gateway gateways.PaymentGateway,
	notifier gateways.SettlementNotifier,
	tutorRole string,
) *SettlementUsecase {
	return &SettlementUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		uow:        uow,
		gateway:    gateway,
		notifier:   notifier,
		tutorRole:  tutorRole,
		now:        time.Now,
	}
}

// HandleStripeWebhook verifies a raw gateway delivery and settles it when it is a completed top-up
func (u *SettlementUsecase) HandleStripeWebhook(ctx context.Context, payload []byte, signatureHeader string) (*entities.SettlementResult, error) {
	event, err := u.gateway.VerifyWebhook(payload, signatureHeader)
	if err != nil {
		metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
		logger.Warn(ctx, "Rejected webhook delivery", zap.Error(err))
		return nil, domainerrors.FromError(err)
	}

	if event.Type != gateways.EventCheckoutSessionCompleted || event.Checkout == nil {
		return u.ignored(ctx, event, "unhandled event type"), nil
	}

	meta, err := entities.ParseTopUpMetadata(event.Checkout.Metadata)
	if errors.Is(err, entities.ErrNotTopUp) {
		return u.ignored(ctx, event, "checkout is not a wallet top-up"), nil
	}
	if err != nil {
		metrics.Settlements.WithLabelValues(metrics.OutcomeRejected).Inc()
		logger.Warn(ctx, "Invalid top-up metadata", zap.String("event_id", event.ID), zap.Error(err))
		return nil, domainerrors.BadRequest(err.Error())
	}

	if event.Checkout.PaymentStatus == paymentStatusUnpaid {
		return u.ignored(ctx, event, "checkout completed without payment"), nil
	}

	result, err := u.Settle(ctx, meta, event.Checkout.SessionID)
	if err != nil {
		return nil, err
	}
	result.EventType = event.Type
	return result, nil
}

// Settle applies a confirmed top-up exactly once.
// Replays of an already COMPLETED transaction report already_processed without touching the balance.
func (u *SettlementUsecase) Settle(ctx context.Context, meta entities.TopUpMetadata, sessionID string) (*entities.SettlementResult, error) {
	var (
		result *entities.SettlementResult
		notice *gateways.SettlementNotice
	)

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		tx, err := u.txRepo.GetByID(lockCtx, meta.TransactionID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("wallet transaction not found")
			}
			return err
		}
		if err := matchesTopUp(tx, meta, sessionID); err != nil {
			return err
		}

		switch tx.Status {
		case entities.WalletTransactionStatusCompleted:
			result = alreadyProcessed(tx)
			return nil
		case entities.WalletTransactionStatusFailed:
			return domainerrors.Conflict("top-up transaction is no longer pending")
		}

		wallet, err := u.walletRepo.GetByID(lockCtx, tx.WalletID)
		if err != nil {
			return err
		}

		newBalance := wallet.Balance.Add(tx.Amount)
		wallet.Balance = newBalance
		if tx.UserRole == u.tutorRole {
			wallet.TotalEarnings = wallet.TotalEarnings.Add(tx.Amount)
		}
		if err := u.walletRepo.UpdateBalances(lockCtx, wallet); err != nil {
			return err
		}

		if !tx.PaymentReference.Valid && sessionID != "" {
			if err := u.txRepo.SetPaymentReference(lockCtx, tx.ID, sessionID); err != nil {
				return err
			}
		}

		completedAt := u.now()
		if err := u.txRepo.MarkCompleted(lockCtx, tx.ID, newBalance, completedAt); err != nil {
			return err
		}

		txID := tx.ID
		result = &entities.SettlementResult{
			Status:        entities.SettlementStatusSettled,
			TransactionID: &txID,
			BalanceAfter:  decimal.NewNullDecimal(newBalance),
		}
		notice = &gateways.SettlementNotice{
			AccountID:     tx.AccountID,
			WalletID:      wallet.ID,
			TransactionID: tx.ID,
			Amount:        tx.Amount,
			Balance:       newBalance,
			SettledAt:     completedAt,
		}
		return nil
	})
	if err != nil {
		// A concurrent delivery may have won the status flip
		if errors.Is(err, domainerrors.ErrNotPending) || errors.Is(err, domainerrors.ErrConcurrentUpdate) {
			if tx, getErr := u.txRepo.GetByID(ctx, meta.TransactionID); getErr == nil && tx.IsCompleted() {
				metrics.Settlements.WithLabelValues(metrics.OutcomeAlreadyProcessed).Inc()
				return alreadyProcessed(tx), nil
			}
		}

		metrics.Settlements.WithLabelValues(metrics.OutcomeFailed).Inc()
		logger.Error(ctx, "Failed to settle top-up",
			zap.String("transaction_id", meta.TransactionID.String()),
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return nil, domainerrors.FromError(err)
	}

	if result.Status == entities.SettlementStatusAlreadyProcessed {
		metrics.Settlements.WithLabelValues(metrics.OutcomeAlreadyProcessed).Inc()
		logger.Info(ctx, "Top-up already settled", zap.String("transaction_id", meta.TransactionID.String()))
		return result, nil
	}

	metrics.Settlements.WithLabelValues(metrics.OutcomeSettled).Inc()
	logger.Info(ctx, "Top-up settled",
		zap.String("transaction_id", notice.TransactionID.String()),
		zap.String("account_id", notice.AccountID.String()),
		zap.String("amount", notice.Amount.String()),
		zap.String("balance", notice.Balance.String()),
	)

	if u.notifier != nil {
		if err := u.notifier.NotifySettled(ctx, *notice); err != nil {
			logger.Warn(ctx, "Failed to publish settlement notice",
				zap.String("transaction_id", notice.TransactionID.String()),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func (u *SettlementUsecase) ignored(ctx context.Context, event *gateways.WebhookEvent, reason string) *entities.SettlementResult {
	metrics.Settlements.WithLabelValues(metrics.OutcomeIgnored).Inc()
	logger.Debug(ctx, "Ignoring webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", event.Type),
		zap.String("reason", reason),
	)
	return &entities.SettlementResult{
		Status:    entities.SettlementStatusIgnored,
		EventType: event.Type,
	}
}

// matchesTopUp rejects metadata that does not describe the stored transaction
func matchesTopUp(tx *entities.WalletTransaction, meta entities.TopUpMetadata, sessionID string) error {
	if tx.Type != entities.WalletTransactionTypeCredit {
		return domainerrors.BadRequest("transaction is not a top-up")
	}
	if tx.AccountID != meta.AccountID || !tx.Amount.Equal(meta.Amount) {
		return domainerrors.BadRequest("top-up metadata does not match transaction")
	}
	if tx.PaymentReference.Valid && sessionID != "" && tx.PaymentReference.String != sessionID {
		return domainerrors.BadRequest("checkout session does not match transaction")
	}
	return nil
}

func alreadyProcessed(tx *entities.WalletTransaction) *entities.SettlementResult {
	txID := tx.ID
	return &entities.SettlementResult{
		Status:        entities.SettlementStatusAlreadyProcessed,
		TransactionID: &txID,
		BalanceAfter:  tx.BalanceAfter,
	}
}
