package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Wallet struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AccountID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Balance          decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	TotalEarnings    decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	TotalWithdrawals decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0"`
	Version          int64           `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Wallet) TableName() string {
	return "wallets"
}

type WalletTransaction struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey"`
	WalletID         uuid.UUID           `gorm:"type:uuid;not null;index"`
	AccountID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_wallet_tx_account_created,priority:1"`
	Amount           decimal.Decimal     `gorm:"type:numeric(20,2);not null"`
	Type             string              `gorm:"type:varchar(16);not null;index"`
	Status           string              `gorm:"type:varchar(16);not null;index"`
	BalanceBefore    decimal.Decimal     `gorm:"type:numeric(20,2);not null;default:0"`
	BalanceAfter     decimal.NullDecimal `gorm:"type:numeric(20,2)"`
	PaymentReference *string             `gorm:"type:varchar(255);index"`
	Description      *string             `gorm:"type:varchar(255)"`
	UserRole         string              `gorm:"type:varchar(50)"`
	CompletedAt      *time.Time
	CreatedAt        time.Time `gorm:"index:idx_wallet_tx_account_created,priority:2"`
	UpdatedAt        time.Time
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

// All lists every model owned by this service, in migration order
func All() []interface{} {
	return []interface{}{&Wallet{}, &WalletTransaction{}}
}
