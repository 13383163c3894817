package gateways

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementNotice announces a credited top-up to other services
type SettlementNotice struct {
	AccountID     uuid.UUID       `json:"accountId"`
	WalletID      uuid.UUID       `json:"walletId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Balance       decimal.Decimal `json:"balance"`
	SettledAt     time.Time       `json:"settledAt"`
}

// SettlementNotifier publishes settlement notices after commit
type SettlementNotifier interface {
	NotifySettled(ctx context.Context, notice SettlementNotice) error
}
