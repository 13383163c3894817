package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// MaxAmount is the largest single amount a ledger entry accepts. It fits a
// numeric(20,2) column and its minor units fit an int64.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

// WalletTransactionType is the direction of a ledger entry
type WalletTransactionType string

const (
	WalletTransactionTypeCredit WalletTransactionType = "CREDIT"
	WalletTransactionTypeDebit  WalletTransactionType = "DEBIT"
)

// Valid reports whether t is a known transaction type
func (t WalletTransactionType) Valid() bool {
	return t == WalletTransactionTypeCredit || t == WalletTransactionTypeDebit
}

// WalletTransactionStatus represents the lifecycle of a ledger entry
type WalletTransactionStatus string

const (
	WalletTransactionStatusPending   WalletTransactionStatus = "PENDING"
	WalletTransactionStatusCompleted WalletTransactionStatus = "COMPLETED"
	WalletTransactionStatusFailed    WalletTransactionStatus = "FAILED"
)

// Valid reports whether s is a known transaction status
func (s WalletTransactionStatus) Valid() bool {
	switch s {
	case WalletTransactionStatusPending, WalletTransactionStatusCompleted, WalletTransactionStatusFailed:
		return true
	}
	return false
}

// Wallet is the per-account running balance.
// Balance always equals completed credits minus completed debits and never goes negative.
type Wallet struct {
	ID               uuid.UUID       `json:"id"`
	AccountID        uuid.UUID       `json:"accountId"`
	Balance          decimal.Decimal `json:"balance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	Version          int64           `json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// NewWallet returns a zero-balance wallet for an account
func NewWallet(id, accountID uuid.UUID) *Wallet {
	return &Wallet{
		ID:               id,
		AccountID:        accountID,
		Balance:          decimal.Zero,
		TotalEarnings:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}
}

// Summary returns the public balance view of the wallet
func (w *Wallet) Summary() *BalanceSummary {
	return &BalanceSummary{
		Balance:          w.Balance,
		TotalEarnings:    w.TotalEarnings,
		TotalWithdrawals: w.TotalWithdrawals,
	}
}

// WalletTransaction is an append-only ledger entry.
// BalanceAfter stays null until the entry reaches COMPLETED.
type WalletTransaction struct {
	ID               uuid.UUID               `json:"id"`
	WalletID         uuid.UUID               `json:"walletId"`
	AccountID        uuid.UUID               `json:"accountId"`
	Amount           decimal.Decimal         `json:"amount"`
	Type             WalletTransactionType   `json:"type"`
	Status           WalletTransactionStatus `json:"status"`
	BalanceBefore    decimal.Decimal         `json:"balanceBefore"`
	BalanceAfter     decimal.NullDecimal     `json:"balanceAfter"`
	PaymentReference null.String             `json:"paymentReference"`
	Description      null.String             `json:"description"`
	UserRole         string                  `json:"userRole,omitempty"`
	CompletedAt      null.Time               `json:"completedAt"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`

	// Joins
	Wallet *Wallet `json:"wallet,omitempty"`
}

// IsCompleted reports whether the entry has been settled
func (t *WalletTransaction) IsCompleted() bool {
	return t.Status == WalletTransactionStatusCompleted
}

// BalanceSummary is the response of a balance query
type BalanceSummary struct {
	Balance          decimal.Decimal `json:"balance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
}

// AmountInput is the body of add-funds and withdraw requests
type AmountInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddFundsResult is returned after a checkout session has been created
type AddFundsResult struct {
	CheckoutURL   string          `json:"checkoutUrl"`
	SessionID     string          `json:"sessionId"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

// WithdrawResult is returned after a synchronous withdrawal
type WithdrawResult struct {
	Balance     decimal.Decimal    `json:"balance"`
	Transaction *WalletTransaction `json:"transaction"`
}

// WalletTransactionFilter narrows the transaction history listing
type WalletTransactionFilter struct {
	Type   WalletTransactionType
	Status WalletTransactionStatus
	Search string
	Limit  int
	Offset int
}

// WalletTransactionStats aggregates one account's ledger
type WalletTransactionStats struct {
	TotalCredits      decimal.Decimal `json:"totalCredits"`
	TotalDebits       decimal.Decimal `json:"totalDebits"`
	TotalTransactions int64           `json:"totalTransactions"`
}

// SettlementStatus is the outcome of a gateway notification
type SettlementStatus string

const (
	SettlementStatusSettled          SettlementStatus = "settled"
	SettlementStatusAlreadyProcessed SettlementStatus = "already_processed"
	SettlementStatusIgnored          SettlementStatus = "ignored"
)

// SettlementResult describes what a webhook delivery did to the ledger
type SettlementResult struct {
	Status        SettlementStatus    `json:"status"`
	EventType     string              `json:"eventType,omitempty"`
	TransactionID *uuid.UUID          `json:"transactionId,omitempty"`
	BalanceAfter  decimal.NullDecimal `json:"balanceAfter"`
}

// ReconciliationReport compares the stored balance with the ledger sum
type ReconciliationReport struct {
	AccountID        uuid.UUID       `json:"accountId"`
	WalletID         uuid.UUID       `json:"walletId"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	LedgerBalance    decimal.Decimal `json:"ledgerBalance"`
	CompletedCredits decimal.Decimal `json:"completedCredits"`
	CompletedDebits  decimal.Decimal `json:"completedDebits"`
	Drift            decimal.Decimal `json:"drift"`
	Consistent       bool            `json:"consistent"`
}

// ReconciliationSummary is the result of auditing every wallet
type ReconciliationSummary struct {
	WalletsChecked int                     `json:"walletsChecked"`
	Drifted        []*ReconciliationReport `json:"drifted"`
}
