package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/gateways"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

func (m *MockUnitOfWork) WithLock(ctx context.Context) context.Context {
	args := m.Called(ctx)
	return args.Get(0).(context.Context)
}

// Mock WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) Create(ctx context.Context, wallet *entities.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Wallet, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalances(ctx context.Context, wallet *entities.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) List(ctx context.Context, limit, offset int) ([]*entities.Wallet, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Wallet), args.Get(1).(int64), args.Error(2)
}

// Mock WalletTransactionRepository
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) Create(ctx context.Context, tx *entities.WalletTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WalletTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletTransaction), args.Error(1)
}

func (m *MockWalletTransactionRepository) SetPaymentReference(ctx context.Context, id uuid.UUID, reference string) error {
	args := m.Called(ctx, id, reference)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) MarkCompleted(ctx context.Context, id uuid.UUID, balanceAfter decimal.Decimal, completedAt time.Time) error {
	args := m.Called(ctx, id, balanceAfter, completedAt)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) ExpirePending(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	args := m.Called(ctx, cutoff, limit)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletTransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, filter entities.WalletTransactionFilter) ([]*entities.WalletTransaction, int64, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletTransactionRepository) StatsByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.WalletTransactionStats, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletTransactionStats), args.Error(1)
}

func (m *MockWalletTransactionRepository) SumCompleted(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, walletID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// Mock PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPaymentGateway) CreateCheckoutSession(ctx context.Context, input gateways.CheckoutSessionInput) (*gateways.CheckoutSession, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.CheckoutSession), args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, signatureHeader string) (*gateways.WebhookEvent, error) {
	args := m.Called(payload, signatureHeader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.WebhookEvent), args.Error(1)
}

// Mock SettlementNotifier
type MockSettlementNotifier struct {
	mock.Mock
}

func (m *MockSettlementNotifier) NotifySettled(ctx context.Context, notice gateways.SettlementNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
