package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
)

// WalletRepository defines wallet data operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *entities.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error)
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error)
	// UpdateBalances persists balance totals if the stored version still matches wallet.Version
	UpdateBalances(ctx context.Context, wallet *entities.Wallet) error
	List(ctx context.Context, limit, offset int) ([]*entities.Wallet, int64, error)
}

// WalletTransactionRepository defines ledger entry data operations
type WalletTransactionRepository interface {
	Create(ctx context.Context, tx *entities.WalletTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.WalletTransaction, error)
	SetPaymentReference(ctx context.Context, id uuid.UUID, reference string) error
	// MarkCompleted flips a PENDING entry to COMPLETED, returning ErrNotPending otherwise
	MarkCompleted(ctx context.Context, id uuid.UUID, balanceAfter decimal.Decimal, completedAt time.Time) error
	// ExpirePending marks PENDING credits created before cutoff as FAILED
	ExpirePending(ctx context.Context, cutoff time.Time, limit int) (int64, error)
	ListByAccountID(ctx context.Context, accountID uuid.UUID, filter entities.WalletTransactionFilter) ([]*entities.WalletTransaction, int64, error)
	StatsByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.WalletTransactionStats, error)
	SumCompleted(ctx context.Context, walletID uuid.UUID) (credits decimal.Decimal, debits decimal.Decimal, err error)
}
