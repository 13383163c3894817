package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/config"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/domain/entities"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/datasources/postgres"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/infrastructure/repositories"
	"github.com/WASS-AKASH-GHOSH2002/Wiznovy-Backend--sub002/internal/usecases"
)

var errLedgerDrift = errors.New("ledger drift detected")

type ledgerAuditRuntime interface {
	ReconcileWallet(ctx context.Context, accountID uuid.UUID) (*entities.ReconciliationReport, error)
	ReconcileAll(ctx context.Context) (*entities.ReconciliationSummary, error)
}

type ledgerAuditDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (ledgerAuditRuntime, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultLedgerAuditDeps() ledgerAuditDeps {
	return ledgerAuditDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (ledgerAuditRuntime, io.Closer, error) {
			conn, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			db, err := postgres.Open(conn)
			if err != nil {
				_ = conn.Close()
				return nil, nil, err
			}

			audit := usecases.NewLedgerAuditUsecase(
				repositories.NewWalletRepository(db),
				repositories.NewWalletTransactionRepository(db),
				repositories.NewUnitOfWork(db),
			)
			return audit, conn, nil
		},
		out: os.Stdout,
	}
}

func parseAccountID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --account-id: %w", err)
	}
	return id, nil
}

func runLedgerAudit(args []string, deps ledgerAuditDeps) error {
	def := defaultLedgerAuditDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("ledger-audit", flag.ContinueOnError)
	accountIDFlag := fs.String("account-id", "", "audit a single account (default: every wallet)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	accountID, err := parseAccountID(*accountIDFlag)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	enc := json.NewEncoder(deps.out)
	enc.SetIndent("", "  ")

	if accountID != uuid.Nil {
		report, err := runtime.ReconcileWallet(ctx, accountID)
		if err != nil {
			return fmt.Errorf("failed to reconcile account %s: %w", accountID, err)
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
		if !report.Consistent {
			return errLedgerDrift
		}
		return nil
	}

	summary, err := runtime.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reconcile wallets: %w", err)
	}
	if err := enc.Encode(summary); err != nil {
		return err
	}
	if len(summary.Drifted) > 0 {
		return fmt.Errorf("%w: %d of %d wallets", errLedgerDrift, len(summary.Drifted), summary.WalletsChecked)
	}
	return nil
}

func main() {
	if err := runLedgerAudit(os.Args[1:], defaultLedgerAuditDeps()); err != nil {
		log.Fatal(err)
	}
}
