package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/repositories"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/metrics"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/pkg/logger"
)

const auditPageSize = 100

// LedgerAuditUsecase compares stored wallet balances with their ledger
type LedgerAuditUsecase struct {
	walletRepo repositories.WalletRepository
	txRepo     repositories.WalletTransactionRepository
	uow        repositories.UnitOfWork
}

func NewLedgerAuditUsecase(
	walletRepo repositories.WalletRepository,
	txRepo repositories.WalletTransactionRepository,
	uow repositories.UnitOfWork,
) *LedgerAuditUsecase {
	return &LedgerAuditUsecase{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		uow:        uow,
	}
}

// ReconcileWallet recomputes one account's balance from its completed entries
func (u *LedgerAuditUsecase) ReconcileWallet(ctx context.Context, accountID uuid.UUID) (*entities.ReconciliationReport, error) {
	var report *entities.ReconciliationReport
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		wallet, err := u.walletRepo.GetByAccountID(u.uow.WithLock(txCtx), accountID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				return domainerrors.NotFound("wallet not found")
			}
			return err
		}
		report, err = u.reconcile(txCtx, wallet)
		return err
	})
	if err != nil {
		return nil, domainerrors.FromError(err)
	}
	return report, nil
}

// ReconcileAll audits every wallet and returns the ones that drifted
func (u *LedgerAuditUsecase) ReconcileAll(ctx context.Context) (*entities.ReconciliationSummary, error) {
	summary := &entities.ReconciliationSummary{Drifted: []*entities.ReconciliationReport{}}

	for offset := 0; ; offset += auditPageSize {
		wallets, _, err := u.walletRepo.List(ctx, auditPageSize, offset)
		if err != nil {
			return nil, domainerrors.FromError(err)
		}

		for _, wallet := range wallets {
			report, err := u.ReconcileWallet(ctx, wallet.AccountID)
			if err != nil {
				return nil, err
			}
			summary.WalletsChecked++
			if !report.Consistent {
				summary.Drifted = append(summary.Drifted, report)
				logger.Warn(ctx, "Wallet balance drifted from ledger",
					zap.String("account_id", report.AccountID.String()),
					zap.String("stored_balance", report.StoredBalance.String()),
					zap.String("ledger_balance", report.LedgerBalance.String()),
				)
			}
		}

		if len(wallets) < auditPageSize {
			break
		}
	}

	metrics.LedgerDrift.Set(float64(len(summary.Drifted)))
	return summary, nil
}

func (u *LedgerAuditUsecase) reconcile(ctx context.Context, wallet *entities.Wallet) (*entities.ReconciliationReport, error) {
	credits, debits, err := u.txRepo.SumCompleted(ctx, wallet.ID)
	if err != nil {
		return nil, err
	}

	ledger := credits.Sub(debits)
	drift := wallet.Balance.Sub(ledger)
	return &entities.ReconciliationReport{
		AccountID:        wallet.AccountID,
		WalletID:         wallet.ID,
		StoredBalance:    wallet.Balance,
		LedgerBalance:    ledger,
		CompletedCredits: credits,
		CompletedDebits:  debits,
		Drift:            drift,
		Consistent:       drift.IsZero(),
	}, nil
}
