package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	domainerrors "github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/errors"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/models"
)

// WalletRepository implements wallet data operations
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create inserts a wallet. A second wallet for the same account yields ErrAlreadyExists.
func (r *WalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	now := time.Now()
	if wallet.ID == uuid.Nil {
		wallet.ID = uuid.New()
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = now
	}
	wallet.UpdatedAt = now

	m := &models.Wallet{
		ID:               wallet.ID,
		AccountID:        wallet.AccountID,
		Balance:          wallet.Balance,
		TotalEarnings:    wallet.TotalEarnings,
		TotalWithdrawals: wallet.TotalWithdrawals,
		Version:          wallet.Version,
		CreatedAt:        wallet.CreatedAt,
		UpdatedAt:        wallet.UpdatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetByID gets a wallet by ID
func (r *WalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockedDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByAccountID gets the wallet owned by an account
func (r *WalletRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	var m models.Wallet
	if err := lockedDB(ctx, r.db).Where("account_id = ?", accountID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// UpdateBalances writes the three running totals and bumps the version.
// It fails with ErrConcurrentUpdate when the row changed since it was read.
func (r *WalletRepository) UpdateBalances(ctx context.Context, wallet *entities.Wallet) error {
	now := time.Now()
	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Wallet{}).
		Where("id = ? AND version = ?", wallet.ID, wallet.Version).
		Updates(map[string]interface{}{
			"balance":           wallet.Balance,
			"total_earnings":    wallet.TotalEarnings,
			"total_withdrawals": wallet.TotalWithdrawals,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConcurrentUpdate
	}
	wallet.Version++
	wallet.UpdatedAt = now
	return nil
}

// List returns wallets oldest first
func (r *WalletRepository) List(ctx context.Context, limit, offset int) ([]*entities.Wallet, int64, error) {
	db := GetDB(ctx, r.db).WithContext(ctx)

	var total int64
	if err := db.Model(&models.Wallet{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Wallet
	query := db.Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	wallets := make([]*entities.Wallet, 0, len(ms))
	for i := range ms {
		wallets = append(wallets, r.toEntity(&ms[i]))
	}
	return wallets, total, nil
}

func (r *WalletRepository) toEntity(m *models.Wallet) *entities.Wallet {
	return &entities.Wallet{
		ID:               m.ID,
		AccountID:        m.AccountID,
		Balance:          m.Balance,
		TotalEarnings:    m.TotalEarnings,
		TotalWithdrawals: m.TotalWithdrawals,
		Version:          m.Version,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
