package entities

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopUpKind tags checkout sessions created for wallet funding
const TopUpKind = "wallet_topup"

// Metadata keys carried through the payment gateway
const (
	MetadataTransactionID = "walletTransactionId"
	MetadataAccountID     = "accountId"
	MetadataAmount        = "amount"
	MetadataType          = "type"
	MetadataUserRole      = "userRole"
)

var (
	// ErrNotTopUp means the metadata belongs to some other kind of checkout
	ErrNotTopUp = errors.New("metadata is not a wallet top-up")
	// ErrInvalidMetadata means a top-up metadata bag is missing or has malformed fields
	ErrInvalidMetadata = errors.New("invalid top-up metadata")
)

// TopUpMetadata is the closed record sent to the gateway with a checkout session
// and read back from the settlement notification.
type TopUpMetadata struct {
	TransactionID uuid.UUID
	AccountID     uuid.UUID
	Amount        decimal.Decimal
	Kind          string
	Role          string
}

// Validate checks the record before it is written or after it is read
func (m TopUpMetadata) Validate() error {
	if m.Kind != TopUpKind {
		return ErrNotTopUp
	}
	if m.TransactionID == uuid.Nil {
		return fmt.Errorf("%w: missing transaction id", ErrInvalidMetadata)
	}
	if m.AccountID == uuid.Nil {
		return fmt.Errorf("%w: missing account id", ErrInvalidMetadata)
	}
	if !m.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidMetadata)
	}
	return nil
}

// ToMap flattens the record into gateway metadata
func (m TopUpMetadata) ToMap() (map[string]string, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return map[string]string{
		MetadataTransactionID: m.TransactionID.String(),
		MetadataAccountID:     m.AccountID.String(),
		MetadataAmount:        m.Amount.String(),
		MetadataType:          m.Kind,
		MetadataUserRole:      m.Role,
	}, nil
}

// ParseTopUpMetadata rebuilds the record from gateway metadata.
// It returns ErrNotTopUp for metadata of unrelated checkouts.
func ParseTopUpMetadata(raw map[string]string) (TopUpMetadata, error) {
	var m TopUpMetadata
	if raw[MetadataType] != TopUpKind {
		return m, ErrNotTopUp
	}
	m.Kind = TopUpKind
	m.Role = raw[MetadataUserRole]

	txID, err := uuid.Parse(raw[MetadataTransactionID])
	if err != nil {
		return m, fmt.Errorf("%w: transaction id: %v", ErrInvalidMetadata, err)
	}
	m.TransactionID = txID

	accountID, err := uuid.Parse(raw[MetadataAccountID])
	if err != nil {
		return m, fmt.Errorf("%w: account id: %v", ErrInvalidMetadata, err)
	}
	m.AccountID = accountID

	amount, err := decimal.NewFromString(raw[MetadataAmount])
	if err != nil {
		return m, fmt.Errorf("%w: amount: %v", ErrInvalidMetadata, err)
	}
	m.Amount = amount

	return m, m.Validate()
}
