package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		balance NUMERIC NOT NULL DEFAULT 0,
		total_earnings NUMERIC NOT NULL DEFAULT 0,
		total_withdrawals NUMERIC NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE wallet_transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		type TEXT NOT NULL,
		status TEXT NOT NULL,
		balance_before NUMERIC NOT NULL DEFAULT 0,
		balance_after NUMERIC,
		payment_reference TEXT,
		description TEXT,
		user_role TEXT,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func seedWallet(t *testing.T, db *gorm.DB, accountID uuid.UUID, balance string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	mustExec(t, db, `INSERT INTO wallets(id,account_id,balance,total_earnings,total_withdrawals,version,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?)`, id.String(), accountID.String(), balance, "0", "0", 0, time.Now(), time.Now())
	return id
}

func seedWalletTransaction(t *testing.T, db *gorm.DB, walletID, accountID uuid.UUID, amount, txType, status, description string, createdAt time.Time) uuid.UUID {
	t.Helper()
	id := uuid.New()
	var balanceAfter interface{}
	if status == "COMPLETED" {
		balanceAfter = amount
	}
	mustExec(t, db, `INSERT INTO wallet_transactions(id,wallet_id,account_id,amount,type,status,balance_before,balance_after,description,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?,?,?,?)`, id.String(), walletID.String(), accountID.String(), amount, txType, status, "0", balanceAfter, description, createdAt, createdAt)
	return id
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
