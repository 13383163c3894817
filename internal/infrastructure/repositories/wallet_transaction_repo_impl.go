package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/models"
)

// WalletTransactionRepository implements ledger entry data operations
type WalletTransactionRepository struct {
	db *gorm.DB
}

// NewWalletTransactionRepository creates a new wallet transaction repository
func NewWalletTransactionRepository(db *gorm.DB) *WalletTransactionRepository {
	return &WalletTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *WalletTransactionRepository) Create(ctx context.Context, tx *entities.WalletTransaction) error {
	now := time.Now()
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.UpdatedAt = now

	m := &models.WalletTransaction{
		ID:               tx.ID,
		WalletID:         tx.WalletID,
		AccountID:        tx.AccountID,
		Amount:           tx.Amount,
		Type:             string(tx.Type),
		Status:           string(tx.Status),
		BalanceBefore:    tx.BalanceBefore,
		BalanceAfter:     tx.BalanceAfter,
		PaymentReference: tx.PaymentReference.Ptr(),
		Description:      tx.Description.Ptr(),
		UserRole:         tx.UserRole,
		CompletedAt:      tx.CompletedAt.Ptr(),
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	return db.WithContext(ctx).Create(m).Error
}

// GetByID gets a ledger entry by ID
func (r *WalletTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WalletTransaction, error) {
	var m models.WalletTransaction
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// SetPaymentReference stores the gateway session id on an entry
func (r *WalletTransactionRepository) SetPaymentReference(ctx context.Context, id uuid.UUID, reference string) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_reference": reference,
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// MarkCompleted settles a PENDING entry. Only one caller can win the status flip.
func (r *WalletTransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, balanceAfter decimal.Decimal, completedAt time.Time) error {
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", id, string(entities.WalletTransactionStatusPending)).
		Updates(map[string]interface{}{
			"status":        string(entities.WalletTransactionStatusCompleted),
			"balance_after": balanceAfter,
			"completed_at":  completedAt,
			"updated_at":    completedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotPending
	}
	return nil
}

// ExpirePending fails up to limit PENDING credits created before cutoff
func (r *WalletTransactionRepository) ExpirePending(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	candidates := db.Model(&models.WalletTransaction{}).
		Select("id").
		Where("status = ? AND type = ? AND created_at < ?",
			string(entities.WalletTransactionStatusPending),
			string(entities.WalletTransactionTypeCredit),
			cutoff).
		Order("created_at ASC")
	if limit > 0 {
		candidates = candidates.Limit(limit)
	}

	result := db.Model(&models.WalletTransaction{}).
		Where("id IN (?) AND status = ?", candidates, string(entities.WalletTransactionStatusPending)).
		Updates(map[string]interface{}{
			"status":     string(entities.WalletTransactionStatusFailed),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListByAccountID lists an account's entries newest first
func (r *WalletTransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, filter entities.WalletTransactionFilter) ([]*entities.WalletTransaction, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	filtered := func() *gorm.DB {
		query := db.Model(&models.WalletTransaction{}).Where("account_id = ?", accountID)
		if filter.Type != "" {
			query = query.Where("type = ?", string(filter.Type))
		}
		if filter.Status != "" {
			query = query.Where("status = ?", string(filter.Status))
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("(LOWER(COALESCE(description, '')) LIKE ? OR LOWER(COALESCE(payment_reference, '')) LIKE ?)", like, like)
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.WalletTransaction
	query := filtered().Order("created_at DESC, id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*entities.WalletTransaction, 0, len(ms))
	for i := range ms {
		items = append(items, r.toEntity(&ms[i]))
	}
	return items, total, nil
}

type walletTransactionTotals struct {
	TotalCredits      decimal.Decimal
	TotalDebits       decimal.Decimal
	TotalTransactions int64
}

// StatsByAccountID sums completed credits and debits and counts every entry
func (r *WalletTransactionRepository) StatsByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.WalletTransactionStats, error) {
	var totals walletTransactionTotals
	err := r.totals(ctx).Where("account_id = ?", accountID).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &entities.WalletTransactionStats{
		TotalCredits:      totals.TotalCredits,
		TotalDebits:       totals.TotalDebits,
		TotalTransactions: totals.TotalTransactions,
	}, nil
}

// SumCompleted returns the completed credit and debit totals of one wallet
func (r *WalletTransactionRepository) SumCompleted(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var totals walletTransactionTotals
	if err := r.totals(ctx).Where("wallet_id = ?", walletID).Scan(&totals).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return totals.TotalCredits, totals.TotalDebits, nil
}

func (r *WalletTransactionRepository) totals(ctx context.Context) *gorm.DB {
	completed := string(entities.WalletTransactionStatusCompleted)
	return GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? AND status = ? THEN amount ELSE 0 END), 0) AS total_credits, "+
				"COALESCE(SUM(CASE WHEN type = ? AND status = ? THEN amount ELSE 0 END), 0) AS total_debits, "+
				"COUNT(*) AS total_transactions",
			string(entities.WalletTransactionTypeCredit), completed,
			string(entities.WalletTransactionTypeDebit), completed,
		)
}

func (r *WalletTransactionRepository) toEntity(m *models.WalletTransaction) *entities.WalletTransaction {
	return &entities.WalletTransaction{
		ID:               m.ID,
		WalletID:         m.WalletID,
		AccountID:        m.AccountID,
		Amount:           m.Amount,
		Type:             entities.WalletTransactionType(m.Type),
		Status:           entities.WalletTransactionStatus(m.Status),
		BalanceBefore:    m.BalanceBefore,
		BalanceAfter:     m.BalanceAfter,
		PaymentReference: null.StringFromPtr(m.PaymentReference),
		Description:      null.StringFromPtr(m.Description),
		UserRole:         m.UserRole,
		CompletedAt:      null.TimeFromPtr(m.CompletedAt),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
